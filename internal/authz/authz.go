// Package authz holds the authorization policy shared by every write
// endpoint.
//
// Two shapes exist: super-admin-only, and owner-or-super-admin scoped to a
// health facility. Handlers apply the policy strictly before delegating to a
// mutating service call, so a failed check can never leave a partial write.
package authz

import (
	"fmt"
	"strings"

	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
)

// Kind tags the role of an authenticated principal.
type Kind string

const (
	// KindNone marks an anonymous request.
	KindNone Kind = ""
	// KindAdmin marks an administrator principal.
	KindAdmin Kind = "admin"
	// KindCitizen marks a citizen principal.
	KindCitizen Kind = "user"
)

// Principal is the authenticated caller, resolved once at the authentication
// boundary and passed as a typed value through the call chain. It replaces
// the tagged-string form ("admin_<username>" / "user_<nik>"), which survives
// only as the JWT subject encoding.
type Principal struct {
	Kind Kind
	// AdminID is set when Kind == KindAdmin.
	AdminID id.AdminID
	// UserID is set when Kind == KindCitizen.
	UserID id.UserID
	// ExternalID is the admin username or citizen nik the token was issued
	// for.
	ExternalID string
}

// IsZero reports whether p identifies nobody.
func (p Principal) IsZero() bool { return p.Kind == KindNone }

// Subject renders the principal in its wire form for token issuance.
func (p Principal) Subject() string {
	return fmt.Sprintf("%s_%s", p.Kind, p.ExternalID)
}

// SplitSubject parses the wire form back into a kind and external id. The
// split happens on the first occurrence of the tag, so external ids
// containing underscores survive the round trip.
func SplitSubject(subject string) (Kind, string, error) {
	if rest, ok := strings.CutPrefix(subject, string(KindAdmin)+"_"); ok {
		return KindAdmin, rest, nil
	}
	if rest, ok := strings.CutPrefix(subject, string(KindCitizen)+"_"); ok {
		return KindCitizen, rest, nil
	}
	return KindNone, "", dErrors.New(dErrors.CodeUnauthorized, "info not found")
}

// AdminRecord is the slice of the admin entity the policy needs. Declared
// here so the package depends on no store or model package.
type AdminRecord interface {
	AdminID() id.AdminID
	IsSuperAdmin() bool
}

// FacilityRecord is the slice of the health facility entity the owner check
// needs.
type FacilityRecord interface {
	OwnerAdminID() (id.AdminID, bool)
}

// RequireSuperAdmin allows only admins carrying the super-admin flag.
func RequireSuperAdmin(admin AdminRecord, action string) error {
	if admin == nil || !admin.IsSuperAdmin() {
		return dErrors.New(dErrors.CodeUnauthorized, "unauthorized to "+action)
	}
	return nil
}

// RequireFacilityOwner allows the facility's owning admin or a super-admin.
// Callers must load the facility first: a missing facility is a NotFound at
// the lookup site and never reaches this predicate, which keeps the error
// ordering the API promises.
func RequireFacilityOwner(admin AdminRecord, facility FacilityRecord, action string) error {
	if admin == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "unauthorized to "+action)
	}
	if admin.IsSuperAdmin() {
		return nil
	}
	if owner, ok := facility.OwnerAdminID(); ok && owner == admin.AdminID() {
		return nil
	}
	return dErrors.New(dErrors.CodeUnauthorized, "unauthorized to "+action)
}
