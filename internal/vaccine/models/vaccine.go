// Package models defines the vaccine catalog entity.
package models

import (
	"time"

	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
)

// Vaccine is a globally owned catalog entry. Only super-admins mutate it.
type Vaccine struct {
	ID            id.VaccineID `json:"id"`
	Name          string       `json:"name"`
	Manufacturer  string       `json:"manufacturer"`
	DosesRequired int          `json:"doses_required"`
	Description   string       `json:"description"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func NewVaccine(vaccineID id.VaccineID, name, manufacturer string, dosesRequired int, description string, now time.Time) (*Vaccine, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vaccine name cannot be empty")
	}
	if dosesRequired < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "doses_required must be at least 1")
	}
	return &Vaccine{
		ID:            vaccineID,
		Name:          name,
		Manufacturer:  manufacturer,
		DosesRequired: dosesRequired,
		Description:   description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ApplyUpdate overwrites the mutable fields.
func (v *Vaccine) ApplyUpdate(name, manufacturer string, dosesRequired int, description string, now time.Time) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "vaccine name cannot be empty")
	}
	if dosesRequired < 1 {
		return dErrors.New(dErrors.CodeInvariantViolation, "doses_required must be at least 1")
	}
	v.Name = name
	v.Manufacturer = manufacturer
	v.DosesRequired = dosesRequired
	v.Description = description
	v.UpdatedAt = now
	return nil
}
