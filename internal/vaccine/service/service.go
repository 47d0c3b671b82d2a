// Package service implements the vaccine catalog operations.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"vaxadmin/internal/authz"
	identitymodels "vaxadmin/internal/identity/models"
	"vaxadmin/internal/vaccine/models"
	"vaxadmin/internal/vaccine/store"
	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
	"vaxadmin/pkg/platform/sentinel"
	"vaxadmin/pkg/requestcontext"
)

var tracer = otel.Tracer("vaxadmin/internal/vaccine")

// AdminResolver loads the admin record behind a principal. Satisfied by the
// auth service.
type AdminResolver interface {
	Admin(ctx context.Context, principal authz.Principal) (*identitymodels.Admin, error)
}

// VaccineInput carries the writable catalog fields.
type VaccineInput struct {
	Name          string
	Manufacturer  string
	DosesRequired int
	Description   string
}

// Service runs catalog reads for any authenticated caller and gates every
// write behind the super-admin role.
type Service struct {
	vaccines store.VaccineStore
	admins   AdminResolver
	logger   *slog.Logger
}

func NewService(vaccines store.VaccineStore, admins AdminResolver, logger *slog.Logger) *Service {
	return &Service{vaccines: vaccines, admins: admins, logger: logger}
}

// Create adds a catalog entry. Super-admin only.
func (s *Service) Create(ctx context.Context, principal authz.Principal, input VaccineInput) (*models.Vaccine, error) {
	ctx, span := tracer.Start(ctx, "vaccine.Create")
	defer span.End()

	if err := s.requireSuperAdmin(ctx, principal, "create vaccine"); err != nil {
		return nil, err
	}

	vaccine, err := models.NewVaccine(
		id.VaccineID(uuid.New()),
		input.Name,
		input.Manufacturer,
		input.DosesRequired,
		input.Description,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.vaccines.Create(ctx, vaccine); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create vaccine")
	}

	s.logger.InfoContext(ctx, "vaccine created",
		"request_id", requestcontext.RequestID(ctx),
		"vaccine_id", vaccine.ID,
	)
	return vaccine, nil
}

// Get returns one catalog entry.
func (s *Service) Get(ctx context.Context, vaccineID id.VaccineID) (*models.Vaccine, error) {
	vaccine, err := s.vaccines.FindByID(ctx, vaccineID)
	if err != nil {
		return nil, notFoundErr(err, "vaccine not found")
	}
	return vaccine, nil
}

// List returns the full catalog in creation order.
func (s *Service) List(ctx context.Context) ([]*models.Vaccine, error) {
	vaccines, err := s.vaccines.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vaccines")
	}
	return vaccines, nil
}

// Update overwrites a catalog entry. Super-admin only.
func (s *Service) Update(ctx context.Context, principal authz.Principal, vaccineID id.VaccineID, input VaccineInput) (*models.Vaccine, error) {
	ctx, span := tracer.Start(ctx, "vaccine.Update")
	defer span.End()

	if err := s.requireSuperAdmin(ctx, principal, "update vaccine"); err != nil {
		return nil, err
	}

	vaccine, err := s.vaccines.FindByID(ctx, vaccineID)
	if err != nil {
		return nil, notFoundErr(err, "vaccine not found")
	}
	if err := vaccine.ApplyUpdate(input.Name, input.Manufacturer, input.DosesRequired, input.Description, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.vaccines.Update(ctx, vaccine); err != nil {
		return nil, notFoundErr(err, "vaccine not found")
	}

	s.logger.InfoContext(ctx, "vaccine updated",
		"request_id", requestcontext.RequestID(ctx),
		"vaccine_id", vaccine.ID,
	)
	return vaccine, nil
}

// Delete removes a catalog entry. Super-admin only.
func (s *Service) Delete(ctx context.Context, principal authz.Principal, vaccineID id.VaccineID) error {
	ctx, span := tracer.Start(ctx, "vaccine.Delete")
	defer span.End()

	if err := s.requireSuperAdmin(ctx, principal, "delete vaccine"); err != nil {
		return err
	}
	if err := s.vaccines.Delete(ctx, vaccineID); err != nil {
		return notFoundErr(err, "vaccine not found")
	}

	s.logger.InfoContext(ctx, "vaccine deleted",
		"request_id", requestcontext.RequestID(ctx),
		"vaccine_id", vaccineID,
	)
	return nil
}

func (s *Service) requireSuperAdmin(ctx context.Context, principal authz.Principal, action string) error {
	admin, err := s.admins.Admin(ctx, principal)
	if err != nil {
		return err
	}
	return authz.RequireSuperAdmin(admin, action)
}

func notFoundErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
}
