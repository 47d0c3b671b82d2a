// Package models defines health facilities and their vaccine distribution
// records.
package models

import (
	"time"

	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
)

// HealthFacility is a vaccination site. AdminID is the owning administrator;
// a zero AdminID means the facility is unassigned and only super-admins can
// act on its behalf.
type HealthFacility struct {
	ID        id.FacilityID `json:"id"`
	Name      string        `json:"name"`
	CityID    id.CityID     `json:"city_id"`
	Address   string        `json:"address"`
	AdminID   id.AdminID    `json:"admin_id,omitzero"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewHealthFacility(facilityID id.FacilityID, name string, cityID id.CityID, address string, adminID id.AdminID, now time.Time) (*HealthFacility, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "facility name cannot be empty")
	}
	if cityID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "facility city cannot be empty")
	}
	return &HealthFacility{
		ID:        facilityID,
		Name:      name,
		CityID:    cityID,
		Address:   address,
		AdminID:   adminID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OwnerAdminID reports the owning admin, if any.
func (f *HealthFacility) OwnerAdminID() (id.AdminID, bool) {
	return f.AdminID, !f.AdminID.IsZero()
}

// ApplyUpdate overwrites the mutable fields.
func (f *HealthFacility) ApplyUpdate(name string, cityID id.CityID, address string, adminID id.AdminID, now time.Time) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "facility name cannot be empty")
	}
	if cityID.IsZero() {
		return dErrors.New(dErrors.CodeInvariantViolation, "facility city cannot be empty")
	}
	f.Name = name
	f.CityID = cityID
	f.Address = address
	f.AdminID = adminID
	f.UpdatedAt = now
	return nil
}

// Distribution is one append-only delivery of vaccine stock to a facility.
type Distribution struct {
	ID         id.DistributionID `json:"id"`
	FacilityID id.FacilityID     `json:"facility_id"`
	VaccineID  id.VaccineID      `json:"vaccine_id"`
	Quantity   int               `json:"quantity"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewDistribution(distributionID id.DistributionID, facilityID id.FacilityID, vaccineID id.VaccineID, quantity int, now time.Time) (*Distribution, error) {
	if facilityID.IsZero() || vaccineID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "distribution must reference a facility and a vaccine")
	}
	if quantity < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "quantity must be at least 1")
	}
	return &Distribution{
		ID:         distributionID,
		FacilityID: facilityID,
		VaccineID:  vaccineID,
		Quantity:   quantity,
		CreatedAt:  now,
	}, nil
}
