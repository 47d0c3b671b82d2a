// Package handler wires the authentication endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxadmin/internal/auth/service"
	"vaxadmin/internal/authz"
	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
	"vaxadmin/pkg/platform/httputil"
	"vaxadmin/pkg/requestcontext"
)

// Handler wires auth endpoints to the auth service.
type Handler struct {
	auth   *service.Service
	logger *slog.Logger
}

func New(auth *service.Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// RegisterPublic mounts the unauthenticated endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/register", h.HandleRegister)
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/admin/login", h.HandleAdminLogin)
}

// RegisterAuthenticated mounts endpoints that require a verified principal.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/auth/me", h.HandleMe)
}

// HandleRegister handles POST /api/v1/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	nik, err := id.ParseNationalID(req.NIK)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.auth.Register(ctx, service.RegisterRequest{
		NIK:         nik,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		h.writeFailure(w, r, "registration failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// HandleLogin handles POST /api/v1/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	nik, err := id.ParseNationalID(req.NIK)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.auth.Login(ctx, nik, req.Password)
	if err != nil {
		h.writeFailure(w, r, "citizen login failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, token)
}

// HandleAdminLogin handles POST /api/v1/auth/admin/login.
func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AdminLoginRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.auth.LoginAdmin(ctx, req.Username, req.Password)
	if err != nil {
		h.writeFailure(w, r, "admin login failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, token)
}

// HandleMe handles GET /api/v1/auth/me, returning the caller's own record.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal := requestcontext.Principal(ctx)
	switch principal.Kind {
	case authz.KindAdmin:
		admin, err := h.auth.Admin(ctx, principal)
		if err != nil {
			h.writeFailure(w, r, "profile lookup failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, admin)
	case authz.KindCitizen:
		user, err := h.auth.User(ctx, principal)
		if err != nil {
			h.writeFailure(w, r, "profile lookup failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, user)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
	}
}

// writeFailure logs unexpected failures with full detail before the generic
// envelope goes out; domain errors pass through untouched.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if !httputil.IsDomainError(err) {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
