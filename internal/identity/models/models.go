// Package models defines the persisted identity records.
package models

import (
	"time"

	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
)

// Admin is an administrator account. Admins are created by a provisioning
// path (seed data or SQL), never through the public API.
//
// Invariants:
//   - Username is non-empty and globally unique among admins
//   - PasswordHash is a bcrypt hash; the raw password is never stored
type Admin struct {
	ID           id.AdminID `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	SuperAdmin   bool       `json:"super_admin"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AdminID implements authz.AdminRecord.
func (a *Admin) AdminID() id.AdminID { return a.ID }

// IsSuperAdmin implements authz.AdminRecord.
func (a *Admin) IsSuperAdmin() bool { return a.SuperAdmin }

// User is a citizen account.
//
// Invariants:
//   - At most one User per nik; uniqueness is enforced by the store, not just
//     checked here, so concurrent registrations cannot both land
//   - Gender and DateOfBirth come from the citizen registry at registration
//     time, never from client input
type User struct {
	ID           id.UserID     `json:"id"`
	NIK          id.NationalID `json:"nik"`
	Name         string        `json:"name"`
	PhoneNumber  string        `json:"phone_number"`
	Gender       string        `json:"gender"`
	DateOfBirth  string        `json:"date_of_birth"`
	PasswordHash string        `json:"-"`
	Active       bool          `json:"active"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewUser constructs a citizen account from registration input plus the
// registry-sourced demographics.
func NewUser(userID id.UserID, nik id.NationalID, name, phone, gender, dateOfBirth, passwordHash string, now time.Time) (*User, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name must be 128 characters or less")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	}
	return &User{
		ID:           userID,
		NIK:          nik,
		Name:         name,
		PhoneNumber:  phone,
		Gender:       gender,
		DateOfBirth:  dateOfBirth,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    now,
	}, nil
}
