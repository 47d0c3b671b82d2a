// Package store persists vaccine catalog entries.
package store

import (
	"context"

	"vaxadmin/internal/vaccine/models"
	id "vaxadmin/pkg/domain"
)

// VaccineStore is implemented by the memory and Postgres backends. Misses are
// reported as sentinel.ErrNotFound.
type VaccineStore interface {
	Create(ctx context.Context, vaccine *models.Vaccine) error
	FindByID(ctx context.Context, vaccineID id.VaccineID) (*models.Vaccine, error)
	List(ctx context.Context) ([]*models.Vaccine, error)
	Update(ctx context.Context, vaccine *models.Vaccine) error
	Delete(ctx context.Context, vaccineID id.VaccineID) error
}
