// Package handler wires the vaccine catalog endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxadmin/internal/vaccine/service"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/httputil"
	"vaxadmin/pkg/requestcontext"
)

type Handler struct {
	vaccines *service.Service
	logger   *slog.Logger
}

func New(vaccines *service.Service, logger *slog.Logger) *Handler {
	return &Handler{vaccines: vaccines, logger: logger}
}

// RegisterPublic mounts the catalog reads. They take no principal.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/vaccines", h.HandleList)
	r.Get("/vaccines/{vaccineID}", h.HandleGet)
}

// RegisterProtected mounts the mutating endpoints. Callers wrap the group
// with the auth middleware; the service additionally gates on the
// super-admin role.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/vaccines", h.HandleCreate)
	r.Put("/vaccines/{vaccineID}", h.HandleUpdate)
	r.Delete("/vaccines/{vaccineID}", h.HandleDelete)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req VaccineRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	vaccine, err := h.vaccines.Create(ctx, requestcontext.Principal(ctx), req.toInput())
	if err != nil {
		h.writeFailure(w, r, "vaccine create failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, vaccine)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "vaccineID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	vaccine, err := h.vaccines.Get(r.Context(), vaccineID)
	if err != nil {
		h.writeFailure(w, r, "vaccine lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vaccine)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	vaccines, err := h.vaccines.List(r.Context())
	if err != nil {
		h.writeFailure(w, r, "vaccine list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vaccines)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "vaccineID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req VaccineRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	vaccine, err := h.vaccines.Update(ctx, requestcontext.Principal(ctx), vaccineID, req.toInput())
	if err != nil {
		h.writeFailure(w, r, "vaccine update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vaccine)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vaccineID, err := id.ParseVaccineID(chi.URLParam(r, "vaccineID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.vaccines.Delete(ctx, requestcontext.Principal(ctx), vaccineID); err != nil {
		h.writeFailure(w, r, "vaccine delete failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil)
}

func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if !httputil.IsDomainError(err) {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
