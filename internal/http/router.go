// Package httpapi assembles the HTTP surface: middleware chain, public
// routes, and the authenticated API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "vaxadmin/internal/auth/handler"
	facilityhandler "vaxadmin/internal/facility/handler"
	"vaxadmin/internal/platform/middleware"
	vaccinehandler "vaxadmin/internal/vaccine/handler"
	dErrors "vaxadmin/pkg/domain-errors"
	"vaxadmin/pkg/platform/httputil"
)

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Auth       *authhandler.Handler
	Vaccines   *vaccinehandler.Handler
	Facilities *facilityhandler.Handler

	Validator middleware.TokenValidator
	Resolver  middleware.PrincipalResolver
	Logger    *slog.Logger

	// HealthChecks maps a dependency name to its probe. All must pass for
	// /healthz to report healthy.
	HealthChecks map[string]HealthCheck
}

// NewRouter wires the middleware chain and all endpoints. Registration,
// login, and catalog reads stay public; every mutation under /api/v1
// requires a Bearer token.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)

	r.Get("/healthz", handleHealth(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			deps.Auth.RegisterPublic(r)
			deps.Vaccines.RegisterPublic(r)
			deps.Facilities.RegisterPublic(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(deps.Validator, deps.Resolver, deps.Logger))
			deps.Auth.RegisterAuthenticated(r)
			deps.Vaccines.RegisterProtected(r)
			deps.Facilities.RegisterProtected(r)
		})
	})

	return r
}

func handleHealth(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{}
		healthy := true
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status[name] = err.Error()
				healthy = false
				continue
			}
			status[name] = "ok"
		}
		if !healthy {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "dependency unhealthy"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, status)
	}
}
