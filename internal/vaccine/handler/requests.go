package handler

import (
	"github.com/asaskevich/govalidator"

	"vaxadmin/internal/vaccine/service"
	dErrors "vaxadmin/pkg/domain-errors"
)

// VaccineRequest is the create/update body for a catalog entry.
type VaccineRequest struct {
	Name          string `json:"name"`
	Manufacturer  string `json:"manufacturer"`
	DosesRequired int    `json:"doses_required"`
	Description   string `json:"description"`
}

func (r VaccineRequest) Validate() error {
	if !govalidator.StringLength(r.Name, "1", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid name")
	}
	if r.Manufacturer != "" && !govalidator.StringLength(r.Manufacturer, "1", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid manufacturer")
	}
	if r.DosesRequired < 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "doses_required must be at least 1")
	}
	if !govalidator.StringLength(r.Description, "0", "1024") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid description")
	}
	return nil
}

func (r VaccineRequest) toInput() service.VaccineInput {
	return service.VaccineInput{
		Name:          r.Name,
		Manufacturer:  r.Manufacturer,
		DosesRequired: r.DosesRequired,
		Description:   r.Description,
	}
}
