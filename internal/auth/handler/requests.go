package handler

import (
	"github.com/asaskevich/govalidator"

	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
)

// RegisterRequest is the citizen registration body. Gender and date of birth
// are not accepted here: the registry is authoritative for demographics.
type RegisterRequest struct {
	NIK         string `json:"nik"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	if _, err := id.ParseNationalID(r.NIK); err != nil {
		return err
	}
	if !govalidator.StringLength(r.Name, "1", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid name")
	}
	if r.PhoneNumber != "" && !govalidator.StringLength(r.PhoneNumber, "6", "20") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid phone_number")
	}
	if !govalidator.StringLength(r.Password, "8", "72") {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be 8 to 72 characters")
	}
	return nil
}

// LoginRequest is the citizen login body.
type LoginRequest struct {
	NIK      string `json:"nik"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if _, err := id.ParseNationalID(r.NIK); err != nil {
		return err
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return nil
}

// AdminLoginRequest is the administrator login body.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r AdminLoginRequest) Validate() error {
	if !govalidator.StringLength(r.Username, "1", "64") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid username")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return nil
}
