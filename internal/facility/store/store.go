// Package store persists health facilities and distribution records.
package store

import (
	"context"

	"vaxadmin/internal/facility/models"
	id "vaxadmin/pkg/domain"
)

// FacilityStore is implemented by the memory and Postgres backends. Misses
// are reported as sentinel.ErrNotFound.
type FacilityStore interface {
	Create(ctx context.Context, facility *models.HealthFacility) error
	FindByID(ctx context.Context, facilityID id.FacilityID) (*models.HealthFacility, error)
	// List returns facilities in creation order; a non-zero cityID narrows the
	// result to that city.
	List(ctx context.Context, cityID id.CityID) ([]*models.HealthFacility, error)
	Update(ctx context.Context, facility *models.HealthFacility) error
	Delete(ctx context.Context, facilityID id.FacilityID) error
}

// DistributionStore holds the append-only distribution log per facility.
type DistributionStore interface {
	Create(ctx context.Context, distribution *models.Distribution) error
	ListByFacility(ctx context.Context, facilityID id.FacilityID) ([]*models.Distribution, error)
}
