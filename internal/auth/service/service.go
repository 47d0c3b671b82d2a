// Package service implements identity resolution, registration, and
// authentication.
//
// This is the single seam through which every authorization check obtains the
// caller's role and ownership attributes, and the one place where the
// external citizen registry and local invariants intersect.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	authmetrics "vaxadmin/internal/auth/metrics"
	"vaxadmin/internal/authz"
	"vaxadmin/internal/identity/models"
	"vaxadmin/internal/identity/store"
	jwttoken "vaxadmin/internal/jwt_token"
	"vaxadmin/internal/registry"
	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
	"vaxadmin/pkg/platform/sentinel"
	"vaxadmin/pkg/requestcontext"
)

var tracer = otel.Tracer("vaxadmin/internal/auth")

// errInvalidCredentials is what both unknown-id and wrong-password collapse
// into, so callers cannot probe which niks are registered.
func errInvalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// RegisterRequest carries citizen registration input. Demographics are
// deliberately absent: gender and date of birth come from the registry.
type RegisterRequest struct {
	NIK         id.NationalID
	Name        string
	PhoneNumber string
	Password    string
}

// TokenResult carries a minted access token.
type TokenResult struct {
	AccessToken string `json:"access_token"`
}

// Service resolves principals, registers citizens, and issues tokens.
type Service struct {
	admins   store.AdminStore
	users    store.UserStore
	citizens registry.CitizenClient
	tokens   *jwttoken.JWTService
	logger   *slog.Logger
	metrics  *authmetrics.Metrics
	lockout  *Lockout
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithMetrics(m *authmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLockout(l *Lockout) Option {
	return func(s *Service) { s.lockout = l }
}

func NewService(admins store.AdminStore, users store.UserStore, citizens registry.CitizenClient, tokens *jwttoken.JWTService, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		admins:   admins,
		users:    users,
		citizens: citizens,
		tokens:   tokens,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolvePrincipal turns a tagged subject ("admin_<username>" /
// "user_<nik>") into a typed principal backed by a stored identity. A
// syntactically valid subject with no matching record resolves to
// Unauthorized, never to a raw lookup miss.
func (s *Service) ResolvePrincipal(ctx context.Context, subject string) (authz.Principal, error) {
	kind, externalID, err := authz.SplitSubject(subject)
	if err != nil {
		return authz.Principal{}, err
	}

	switch kind {
	case authz.KindAdmin:
		admin, err := s.admins.FindByUsername(ctx, externalID)
		if err != nil {
			return authz.Principal{}, resolveErr(err)
		}
		return authz.Principal{Kind: authz.KindAdmin, AdminID: admin.ID, ExternalID: admin.Username}, nil
	default:
		user, err := s.users.FindByNIK(ctx, id.NationalID(externalID))
		if err != nil {
			return authz.Principal{}, resolveErr(err)
		}
		return authz.Principal{Kind: authz.KindCitizen, UserID: user.ID, ExternalID: user.NIK.String()}, nil
	}
}

func resolveErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeUnauthorized, "info not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve principal")
}

// Admin loads the admin record behind a principal. Non-admin principals get
// Unauthorized, so endpoints gated on admin roles need no extra kind check.
func (s *Service) Admin(ctx context.Context, principal authz.Principal) (*models.Admin, error) {
	if principal.Kind != authz.KindAdmin {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "admin access required")
	}
	admin, err := s.admins.FindByID(ctx, principal.AdminID)
	if err != nil {
		return nil, resolveErr(err)
	}
	return admin, nil
}

// User loads the citizen record behind a principal.
func (s *Service) User(ctx context.Context, principal authz.Principal) (*models.User, error) {
	if principal.Kind != authz.KindCitizen {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "citizen access required")
	}
	user, err := s.users.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, resolveErr(err)
	}
	return user, nil
}

// Register validates a claimed nik against the citizen registry and creates
// the account. The registry is authoritative for demographics: gender and
// date of birth are copied verbatim from its record, which stops a client
// from registering fabricated demographics for a real nik.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "auth.Register")
	defer span.End()
	span.SetAttributes(attribute.String("request_id", requestcontext.RequestID(ctx)))

	if _, err := s.users.FindByNIK(ctx, req.NIK); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "user already exists")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing user")
	}

	start := time.Now()
	citizen, err := s.citizens.Lookup(ctx, req.NIK)
	s.observeRegistryLookup(start)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "nik not found in citizen registry",
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, dErrors.New(dErrors.CodeInvalidReference, "nik not found")
		}
		s.logger.ErrorContext(ctx, "citizen registry lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "citizen registry unavailable")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user, err := models.NewUser(
		id.UserID(uuid.New()),
		req.NIK,
		req.Name,
		req.PhoneNumber,
		citizen.Gender,
		citizen.DateOfBirth,
		string(hash),
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.users.CreateIfAbsent(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "user already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.logger.InfoContext(ctx, "citizen registered",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
	)
	s.incrementRegistration()
	return user, nil
}

// Login authenticates a citizen by nik and password and mints a token.
func (s *Service) Login(ctx context.Context, nik id.NationalID, password string) (TokenResult, error) {
	ctx, span := tracer.Start(ctx, "auth.Login")
	defer span.End()

	principal, err := s.verifyCitizen(ctx, nik, password)
	if err != nil {
		s.incrementLogin(string(authz.KindCitizen), "failure")
		return TokenResult{}, err
	}
	s.incrementLogin(string(authz.KindCitizen), "success")
	return s.issueToken(ctx, principal)
}

// LoginAdmin authenticates an administrator by username and password.
func (s *Service) LoginAdmin(ctx context.Context, username, password string) (TokenResult, error) {
	ctx, span := tracer.Start(ctx, "auth.LoginAdmin")
	defer span.End()

	principal, err := s.verifyAdmin(ctx, username, password)
	if err != nil {
		s.incrementLogin(string(authz.KindAdmin), "failure")
		return TokenResult{}, err
	}
	s.incrementLogin(string(authz.KindAdmin), "success")
	return s.issueToken(ctx, principal)
}

func (s *Service) verifyCitizen(ctx context.Context, nik id.NationalID, password string) (authz.Principal, error) {
	identifier := "user:" + nik.String()
	if err := s.checkLockout(ctx, identifier); err != nil {
		return authz.Principal{}, err
	}

	user, err := s.users.FindByNIK(ctx, nik)
	if err != nil {
		// Unknown nik and wrong password must be indistinguishable.
		s.recordFailure(ctx, identifier)
		return authz.Principal{}, s.credentialFailure(ctx, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, identifier)
		return authz.Principal{}, s.credentialFailure(ctx, nil)
	}
	if !user.Active {
		return authz.Principal{}, dErrors.New(dErrors.CodeForbidden, "account inactive")
	}

	s.recordSuccess(ctx, identifier)
	return authz.Principal{Kind: authz.KindCitizen, UserID: user.ID, ExternalID: user.NIK.String()}, nil
}

func (s *Service) verifyAdmin(ctx context.Context, username, password string) (authz.Principal, error) {
	identifier := "admin:" + username
	if err := s.checkLockout(ctx, identifier); err != nil {
		return authz.Principal{}, err
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		s.recordFailure(ctx, identifier)
		return authz.Principal{}, s.credentialFailure(ctx, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, identifier)
		return authz.Principal{}, s.credentialFailure(ctx, nil)
	}

	s.recordSuccess(ctx, identifier)
	return authz.Principal{Kind: authz.KindAdmin, AdminID: admin.ID, ExternalID: admin.Username}, nil
}

func (s *Service) issueToken(ctx context.Context, principal authz.Principal) (TokenResult, error) {
	token, err := s.tokens.GenerateAccessToken(principal, requestcontext.Now(ctx))
	if err != nil {
		return TokenResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	s.logger.InfoContext(ctx, "access token issued",
		"request_id", requestcontext.RequestID(ctx),
		"role", principal.Kind,
		"device", requestcontext.Device(ctx),
	)
	return TokenResult{AccessToken: token}, nil
}

// credentialFailure logs the real reason and returns the generic error. Store
// failures other than a miss still surface as Internal so outages aren't
// misreported as bad credentials.
func (s *Service) credentialFailure(ctx context.Context, cause error) error {
	if cause != nil && !errors.Is(cause, sentinel.ErrNotFound) {
		return dErrors.Wrap(cause, dErrors.CodeInternal, "failed to verify credentials")
	}
	s.logger.WarnContext(ctx, "authentication failed",
		"request_id", requestcontext.RequestID(ctx),
		"client_ip", requestcontext.ClientIP(ctx),
		"device", requestcontext.Device(ctx),
	)
	return errInvalidCredentials()
}

func (s *Service) checkLockout(ctx context.Context, identifier string) error {
	if s.lockout == nil {
		return nil
	}
	blocked, err := s.lockout.Blocked(ctx, identifier)
	if err != nil {
		// A broken limiter must not take logins down with it.
		s.logger.ErrorContext(ctx, "lockout check failed", "error", err)
		return nil
	}
	if blocked {
		s.incrementLockout()
		return dErrors.New(dErrors.CodeUnauthorized, "too many failed attempts, try again later")
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, identifier string) {
	if s.lockout == nil {
		return
	}
	if err := s.lockout.RecordFailure(ctx, identifier); err != nil {
		s.logger.ErrorContext(ctx, "failed to record login failure", "error", err)
	}
}

func (s *Service) recordSuccess(ctx context.Context, identifier string) {
	if s.lockout == nil {
		return
	}
	if err := s.lockout.RecordSuccess(ctx, identifier); err != nil {
		s.logger.ErrorContext(ctx, "failed to reset login failures", "error", err)
	}
}

func (s *Service) incrementRegistration() {
	if s.metrics != nil {
		s.metrics.IncrementRegistration()
	}
}

func (s *Service) incrementLogin(role, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLogin(role, outcome)
	}
}

func (s *Service) incrementLockout() {
	if s.metrics != nil {
		s.metrics.IncrementLockout()
	}
}

func (s *Service) observeRegistryLookup(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRegistryLookup(start)
	}
}
