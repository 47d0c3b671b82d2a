// Package domain defines the typed identifiers shared across modules.
//
// Each entity gets its own UUID-backed type so the compiler rejects
// cross-entity assignment (an AdminID can never be passed where a
// FacilityID is expected). Parsing happens at trust boundaries only.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "vaxadmin/pkg/domain-errors"
)

type (
	// AdminID identifies an administrator account.
	AdminID uuid.UUID
	// UserID identifies a citizen account.
	UserID uuid.UUID
	// VaccineID identifies a vaccine catalog entry.
	VaccineID uuid.UUID
	// FacilityID identifies a health facility.
	FacilityID uuid.UUID
	// DistributionID identifies a vaccine distribution record.
	DistributionID uuid.UUID
	// CityID identifies the city a facility belongs to.
	CityID uuid.UUID
)

func (id AdminID) String() string        { return uuid.UUID(id).String() }
func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id VaccineID) String() string      { return uuid.UUID(id).String() }
func (id FacilityID) String() string     { return uuid.UUID(id).String() }
func (id DistributionID) String() string { return uuid.UUID(id).String() }
func (id CityID) String() string         { return uuid.UUID(id).String() }

// The UUID-backed types marshal as their canonical string form. Defined
// explicitly because named types do not inherit uuid.UUID's methods.
func (id AdminID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id VaccineID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id FacilityID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id DistributionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id CityID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }

func (id *AdminID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = AdminID(parsed)
	return nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = UserID(parsed)
	return nil
}

func (id *VaccineID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = VaccineID(parsed)
	return nil
}

func (id *FacilityID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = FacilityID(parsed)
	return nil
}

func (id *DistributionID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = DistributionID(parsed)
	return nil
}

func (id *CityID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = CityID(parsed)
	return nil
}

func (id AdminID) IsZero() bool        { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsZero() bool         { return uuid.UUID(id) == uuid.Nil }
func (id VaccineID) IsZero() bool      { return uuid.UUID(id) == uuid.Nil }
func (id FacilityID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DistributionID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id CityID) IsZero() bool         { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs. Rejections surface as InvalidInput so handlers can map them
// to 400 without inspecting the message.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id is required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return parsed, nil
}

func ParseAdminID(raw string) (AdminID, error) {
	parsed, err := parseUUID(raw, "admin")
	return AdminID(parsed), err
}

func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user")
	return UserID(parsed), err
}

func ParseVaccineID(raw string) (VaccineID, error) {
	parsed, err := parseUUID(raw, "vaccine")
	return VaccineID(parsed), err
}

func ParseFacilityID(raw string) (FacilityID, error) {
	parsed, err := parseUUID(raw, "facility")
	return FacilityID(parsed), err
}

func ParseDistributionID(raw string) (DistributionID, error) {
	parsed, err := parseUUID(raw, "distribution")
	return DistributionID(parsed), err
}

func ParseCityID(raw string) (CityID, error) {
	parsed, err := parseUUID(raw, "city")
	return CityID(parsed), err
}

// NationalID is a citizen's government-issued identifier (nik). It is an
// external key, not a UUID: the registry is authoritative for its format, so
// we only normalize whitespace and compare case-insensitively.
type NationalID string

func ParseNationalID(raw string) (NationalID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "nik is required")
	}
	if len(trimmed) > 32 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "nik too long")
	}
	return NationalID(trimmed), nil
}

func (n NationalID) String() string { return string(n) }

// Equal compares two national ids case-insensitively, matching the registry's
// matching rule.
func (n NationalID) Equal(other NationalID) bool {
	return strings.EqualFold(string(n), string(other))
}
