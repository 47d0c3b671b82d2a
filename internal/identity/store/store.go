// Package store persists identity records. Implementations return
// pkg/platform/sentinel errors; services translate them into domain errors.
package store

import (
	"context"

	"vaxadmin/internal/identity/models"
	id "vaxadmin/pkg/domain"
)

// AdminStore looks up administrator accounts. Creation exists only for the
// provisioning path (seed data, tests).
type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByID(ctx context.Context, adminID id.AdminID) (*models.Admin, error)
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// UserStore persists citizen accounts. CreateIfAbsent must enforce nik
// uniqueness atomically (UNIQUE index in Postgres, locked map check in
// memory) and return sentinel.ErrConflict on a duplicate.
type UserStore interface {
	CreateIfAbsent(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByNIK(ctx context.Context, nik id.NationalID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	// Delete removes a citizen account. No endpoint is bound to it; it exists
	// for administrative cleanup.
	Delete(ctx context.Context, userID id.UserID) error
}
