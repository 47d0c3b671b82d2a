package testutil

import (
	"net/http"
	"time"

	"vaxadmin/internal/authz"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/requestcontext"
)

// WithAdminPrincipal marks the request as authenticated by the given admin.
// This simulates what the auth middleware does after resolving a token.
func WithAdminPrincipal(req *http.Request, adminID id.AdminID, username string) *http.Request {
	principal := authz.Principal{Kind: authz.KindAdmin, AdminID: adminID, ExternalID: username}
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), principal))
}

// WithCitizenPrincipal marks the request as authenticated by the given
// citizen.
func WithCitizenPrincipal(req *http.Request, userID id.UserID, nik string) *http.Request {
	principal := authz.Principal{Kind: authz.KindCitizen, UserID: userID, ExternalID: nik}
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), principal))
}

// WithRequestTime pins the request-scoped clock so created_at assertions are
// deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
