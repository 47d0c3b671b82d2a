// Package service implements health facility management and vaccine
// distribution recording.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"vaxadmin/internal/authz"
	"vaxadmin/internal/facility/models"
	"vaxadmin/internal/facility/store"
	identitymodels "vaxadmin/internal/identity/models"
	vaccinemodels "vaxadmin/internal/vaccine/models"
	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
	"vaxadmin/pkg/platform/sentinel"
	"vaxadmin/pkg/requestcontext"
)

var tracer = otel.Tracer("vaxadmin/internal/facility")

// AdminResolver loads the admin record behind a principal. Satisfied by the
// auth service.
type AdminResolver interface {
	Admin(ctx context.Context, principal authz.Principal) (*identitymodels.Admin, error)
}

// AdminDirectory verifies that an assigned owner exists. Satisfied by the
// admin store.
type AdminDirectory interface {
	FindByID(ctx context.Context, adminID id.AdminID) (*identitymodels.Admin, error)
}

// VaccineCatalog verifies that a distributed vaccine exists. Satisfied by the
// vaccine service.
type VaccineCatalog interface {
	Get(ctx context.Context, vaccineID id.VaccineID) (*vaccinemodels.Vaccine, error)
}

// FacilityInput carries the writable facility fields. AdminID may be zero for
// an unassigned facility.
type FacilityInput struct {
	Name    string
	CityID  id.CityID
	Address string
	AdminID id.AdminID
}

// DistributionInput carries a new distribution record. The facility comes
// from the request path, never from the body.
type DistributionInput struct {
	VaccineID id.VaccineID
	Quantity  int
}

// Service gates facility writes behind the super-admin role and distribution
// writes behind facility ownership.
type Service struct {
	facilities    store.FacilityStore
	distributions store.DistributionStore
	admins        AdminResolver
	directory     AdminDirectory
	vaccines      VaccineCatalog
	logger        *slog.Logger
}

func NewService(facilities store.FacilityStore, distributions store.DistributionStore, admins AdminResolver, directory AdminDirectory, vaccines VaccineCatalog, logger *slog.Logger) *Service {
	return &Service{
		facilities:    facilities,
		distributions: distributions,
		admins:        admins,
		directory:     directory,
		vaccines:      vaccines,
		logger:        logger,
	}
}

// Create adds a facility. Super-admin only. An assigned owner must exist.
func (s *Service) Create(ctx context.Context, principal authz.Principal, input FacilityInput) (*models.HealthFacility, error) {
	ctx, span := tracer.Start(ctx, "facility.Create")
	defer span.End()

	admin, err := s.admins.Admin(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSuperAdmin(admin, "create facility"); err != nil {
		return nil, err
	}
	if err := s.verifyOwner(ctx, input.AdminID); err != nil {
		return nil, err
	}

	facility, err := models.NewHealthFacility(
		id.FacilityID(uuid.New()),
		input.Name,
		input.CityID,
		input.Address,
		input.AdminID,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.facilities.Create(ctx, facility); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create facility")
	}

	s.logger.InfoContext(ctx, "facility created",
		"request_id", requestcontext.RequestID(ctx),
		"facility_id", facility.ID,
	)
	return facility, nil
}

// Get returns one facility.
func (s *Service) Get(ctx context.Context, facilityID id.FacilityID) (*models.HealthFacility, error) {
	facility, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, facilityErr(err)
	}
	return facility, nil
}

// List returns facilities, optionally narrowed to one city.
func (s *Service) List(ctx context.Context, cityID id.CityID) ([]*models.HealthFacility, error) {
	facilities, err := s.facilities.List(ctx, cityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list facilities")
	}
	return facilities, nil
}

// Update overwrites a facility. Super-admin only.
func (s *Service) Update(ctx context.Context, principal authz.Principal, facilityID id.FacilityID, input FacilityInput) (*models.HealthFacility, error) {
	ctx, span := tracer.Start(ctx, "facility.Update")
	defer span.End()

	admin, err := s.admins.Admin(ctx, principal)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSuperAdmin(admin, "update facility"); err != nil {
		return nil, err
	}

	facility, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, facilityErr(err)
	}
	if err := s.verifyOwner(ctx, input.AdminID); err != nil {
		return nil, err
	}
	if err := facility.ApplyUpdate(input.Name, input.CityID, input.Address, input.AdminID, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.facilities.Update(ctx, facility); err != nil {
		return nil, facilityErr(err)
	}

	s.logger.InfoContext(ctx, "facility updated",
		"request_id", requestcontext.RequestID(ctx),
		"facility_id", facility.ID,
	)
	return facility, nil
}

// Delete removes a facility. Super-admin only.
func (s *Service) Delete(ctx context.Context, principal authz.Principal, facilityID id.FacilityID) error {
	ctx, span := tracer.Start(ctx, "facility.Delete")
	defer span.End()

	admin, err := s.admins.Admin(ctx, principal)
	if err != nil {
		return err
	}
	if err := authz.RequireSuperAdmin(admin, "delete facility"); err != nil {
		return err
	}
	if err := s.facilities.Delete(ctx, facilityID); err != nil {
		return facilityErr(err)
	}

	s.logger.InfoContext(ctx, "facility deleted",
		"request_id", requestcontext.RequestID(ctx),
		"facility_id", facilityID,
	)
	return nil
}

// RecordDistribution appends a distribution for the facility in the request
// path. The facility is loaded before ownership is checked, so a missing
// facility is reported as NotFound even to callers who would not have been
// authorized for it.
func (s *Service) RecordDistribution(ctx context.Context, principal authz.Principal, facilityID id.FacilityID, input DistributionInput) (*models.Distribution, error) {
	ctx, span := tracer.Start(ctx, "facility.RecordDistribution")
	defer span.End()

	admin, err := s.admins.Admin(ctx, principal)
	if err != nil {
		return nil, err
	}

	facility, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, facilityErr(err)
	}
	if err := authz.RequireFacilityOwner(admin, facility, "create vaccine distribution for this facility"); err != nil {
		return nil, err
	}

	if _, err := s.vaccines.Get(ctx, input.VaccineID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidReference, "vaccine not found")
		}
		return nil, err
	}

	distribution, err := models.NewDistribution(
		id.DistributionID(uuid.New()),
		facility.ID,
		input.VaccineID,
		input.Quantity,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.distributions.Create(ctx, distribution); err != nil {
		// The facility row can vanish between the ownership check and the
		// insert; the foreign key reports that as a miss.
		return nil, facilityErr(err)
	}

	s.logger.InfoContext(ctx, "distribution recorded",
		"request_id", requestcontext.RequestID(ctx),
		"facility_id", facility.ID,
		"vaccine_id", input.VaccineID,
		"quantity", input.Quantity,
	)
	return distribution, nil
}

// ListDistributions returns the facility's distribution log.
func (s *Service) ListDistributions(ctx context.Context, facilityID id.FacilityID) ([]*models.Distribution, error) {
	if _, err := s.facilities.FindByID(ctx, facilityID); err != nil {
		return nil, facilityErr(err)
	}
	distributions, err := s.distributions.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list distributions")
	}
	return distributions, nil
}

func (s *Service) verifyOwner(ctx context.Context, adminID id.AdminID) error {
	if adminID.IsZero() {
		return nil
	}
	if _, err := s.directory.FindByID(ctx, adminID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeInvalidReference, "admin not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify admin")
	}
	return nil
}

func facilityErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "health facility not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
}
