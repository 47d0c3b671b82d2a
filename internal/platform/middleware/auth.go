package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"vaxadmin/internal/authz"
	jwttoken "vaxadmin/internal/jwt_token"
	dErrors "vaxadmin/pkg/domain-errors"
	"vaxadmin/pkg/platform/httputil"
	"vaxadmin/pkg/requestcontext"
)

// TokenValidator verifies an access token and returns its claims. Satisfied
// by the JWT service.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// PrincipalResolver turns a token subject into a stored principal. Satisfied
// by the auth service.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, subject string) (authz.Principal, error)
}

// RequireAuth verifies the Bearer token, resolves the principal it names
// against the identity stores, and stores the principal in the request
// context. A token whose subject no longer matches a stored identity is
// rejected, so deleted accounts lose access before their tokens expire.
func RequireAuth(validator TokenValidator, resolver PrincipalResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			principal, err := resolver.ResolvePrincipal(ctx, claims.Subject)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - unresolved principal",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithPrincipal(ctx, principal)))
		})
	}
}
