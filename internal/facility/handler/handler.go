// Package handler wires the health facility and distribution endpoints.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaxadmin/internal/facility/service"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/httputil"
	"vaxadmin/pkg/requestcontext"
)

type Handler struct {
	facilities *service.Service
	logger     *slog.Logger
}

func New(facilities *service.Service, logger *slog.Logger) *Handler {
	return &Handler{facilities: facilities, logger: logger}
}

// RegisterPublic mounts the facility and distribution reads. They take no
// principal.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/health-facilities", h.HandleList)
	r.Get("/health-facilities/{facilityID}", h.HandleGet)
	r.Get("/health-facilities/{facilityID}/vaccines", h.HandleListDistributions)
}

// RegisterProtected mounts the mutating endpoints behind the auth middleware.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/health-facilities", h.HandleCreate)
	r.Put("/health-facilities/{facilityID}", h.HandleUpdate)
	r.Delete("/health-facilities/{facilityID}", h.HandleDelete)
	r.Post("/health-facilities/{facilityID}/vaccines", h.HandleRecordDistribution)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req FacilityRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	facility, err := h.facilities.Create(ctx, requestcontext.Principal(ctx), input)
	if err != nil {
		h.writeFailure(w, r, "facility create failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, facility)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	facilityID, err := id.ParseFacilityID(chi.URLParam(r, "facilityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	facility, err := h.facilities.Get(r.Context(), facilityID)
	if err != nil {
		h.writeFailure(w, r, "facility lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, facility)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var cityID id.CityID
	if raw := r.URL.Query().Get("city_id"); raw != "" {
		parsed, err := id.ParseCityID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		cityID = parsed
	}

	facilities, err := h.facilities.List(r.Context(), cityID)
	if err != nil {
		h.writeFailure(w, r, "facility list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, facilities)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	facilityID, err := id.ParseFacilityID(chi.URLParam(r, "facilityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req FacilityRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	facility, err := h.facilities.Update(ctx, requestcontext.Principal(ctx), facilityID, input)
	if err != nil {
		h.writeFailure(w, r, "facility update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, facility)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	facilityID, err := id.ParseFacilityID(chi.URLParam(r, "facilityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.facilities.Delete(ctx, requestcontext.Principal(ctx), facilityID); err != nil {
		h.writeFailure(w, r, "facility delete failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil)
}

func (h *Handler) HandleRecordDistribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	facilityID, err := id.ParseFacilityID(chi.URLParam(r, "facilityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req DistributionRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	distribution, err := h.facilities.RecordDistribution(ctx, requestcontext.Principal(ctx), facilityID, input)
	if err != nil {
		h.writeFailure(w, r, "distribution create failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, distribution)
}

func (h *Handler) HandleListDistributions(w http.ResponseWriter, r *http.Request) {
	facilityID, err := id.ParseFacilityID(chi.URLParam(r, "facilityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	distributions, err := h.facilities.ListDistributions(r.Context(), facilityID)
	if err != nil {
		h.writeFailure(w, r, "distribution list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, distributions)
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
