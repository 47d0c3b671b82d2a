// Package registry integrates the external citizen registry, the
// authoritative source for citizen demographics.
//
// Callers depend on the lookup-by-id capability only; how an implementation
// answers (a keyed endpoint, a full-collection scan, static data) is its own
// business, so a future registry API change does not touch registration code.
package registry

import (
	"context"

	id "vaxadmin/pkg/domain"
)

// CitizenRecord is a demographic record returned by the registry.
type CitizenRecord struct {
	NIK         string `json:"nik"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
}

// CitizenClient resolves a national id to its registry record.
//
// Lookup returns sentinel.ErrNotFound when the registry does not know the id
// and sentinel.ErrUnavailable (wrapped) when the registry cannot be reached;
// callers map these to InvalidReference and Unavailable respectively.
type CitizenClient interface {
	Lookup(ctx context.Context, nik id.NationalID) (CitizenRecord, error)
}
