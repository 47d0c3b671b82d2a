package handler

import (
	"github.com/asaskevich/govalidator"

	"vaxadmin/internal/facility/service"
	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
)

// FacilityRequest is the create/update body for a facility. AdminID is
// optional; an empty value leaves the facility unassigned.
type FacilityRequest struct {
	Name    string `json:"name"`
	CityID  string `json:"city_id"`
	Address string `json:"address"`
	AdminID string `json:"admin_id"`
}

func (r FacilityRequest) Validate() error {
	if !govalidator.StringLength(r.Name, "1", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid name")
	}
	if _, err := id.ParseCityID(r.CityID); err != nil {
		return err
	}
	if !govalidator.StringLength(r.Address, "0", "256") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid address")
	}
	if r.AdminID != "" {
		if _, err := id.ParseAdminID(r.AdminID); err != nil {
			return err
		}
	}
	return nil
}

func (r FacilityRequest) toInput() (service.FacilityInput, error) {
	cityID, err := id.ParseCityID(r.CityID)
	if err != nil {
		return service.FacilityInput{}, err
	}
	input := service.FacilityInput{
		Name:    r.Name,
		CityID:  cityID,
		Address: r.Address,
	}
	if r.AdminID != "" {
		adminID, err := id.ParseAdminID(r.AdminID)
		if err != nil {
			return service.FacilityInput{}, err
		}
		input.AdminID = adminID
	}
	return input, nil
}

// DistributionRequest is the body for recording a distribution. The facility
// comes from the path, so a facility field here is rejected by omission.
type DistributionRequest struct {
	VaccineID string `json:"vaccine_id"`
	Quantity  int    `json:"quantity"`
}

func (r DistributionRequest) Validate() error {
	if _, err := id.ParseVaccineID(r.VaccineID); err != nil {
		return err
	}
	if r.Quantity < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "quantity must be at least 1")
	}
	return nil
}

func (r DistributionRequest) toInput() (service.DistributionInput, error) {
	vaccineID, err := id.ParseVaccineID(r.VaccineID)
	if err != nil {
		return service.DistributionInput{}, err
	}
	return service.DistributionInput{VaccineID: vaccineID, Quantity: r.Quantity}, nil
}
