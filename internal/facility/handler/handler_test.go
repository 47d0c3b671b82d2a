package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxadmin/internal/authz"
	"vaxadmin/internal/facility/service"
	"vaxadmin/internal/facility/store"
	identitymodels "vaxadmin/internal/identity/models"
	vaccinemodels "vaxadmin/internal/vaccine/models"
	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
	"vaxadmin/pkg/platform/sentinel"
	"vaxadmin/pkg/testutil"
)

type fakeAdmins map[id.AdminID]*identitymodels.Admin

func (f fakeAdmins) Admin(_ context.Context, principal authz.Principal) (*identitymodels.Admin, error) {
	if principal.Kind != authz.KindAdmin {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "admin access required")
	}
	admin, ok := f[principal.AdminID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "info not found")
	}
	return admin, nil
}

func (f fakeAdmins) FindByID(_ context.Context, adminID id.AdminID) (*identitymodels.Admin, error) {
	admin, ok := f[adminID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return admin, nil
}

type fakeCatalog map[id.VaccineID]*vaccinemodels.Vaccine

func (f fakeCatalog) Get(_ context.Context, vaccineID id.VaccineID) (*vaccinemodels.Vaccine, error) {
	vaccine, ok := f[vaccineID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "vaccine not found")
	}
	return vaccine, nil
}

type env struct {
	router  chi.Router
	svc     *service.Service
	super   *identitymodels.Admin
	owner   *identitymodels.Admin
	other   *identitymodels.Admin
	vaccine id.VaccineID
	cityID  id.CityID
}

func newEnv(t *testing.T) *env {
	t.Helper()

	super := &identitymodels.Admin{ID: id.AdminID(uuid.New()), Username: "root", SuperAdmin: true}
	owner := &identitymodels.Admin{ID: id.AdminID(uuid.New()), Username: "owner"}
	other := &identitymodels.Admin{ID: id.AdminID(uuid.New()), Username: "other"}
	admins := fakeAdmins{super.ID: super, owner.ID: owner, other.ID: other}

	vaccineID := id.VaccineID(uuid.New())
	catalog := fakeCatalog{vaccineID: &vaccinemodels.Vaccine{ID: vaccineID, Name: "Sinovac", DosesRequired: 2}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewService(store.NewInMemoryFacilityStore(), store.NewInMemoryDistributionStore(),
		admins, admins, catalog, logger)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.RegisterPublic(r)
	h.RegisterProtected(r)

	return &env{router: r, svc: svc, super: super, owner: owner, other: other, vaccine: vaccineID, cityID: id.CityID(uuid.New())}
}

func (e *env) asAdmin(req *http.Request, admin *identitymodels.Admin) *http.Request {
	return testutil.WithAdminPrincipal(req, admin.ID, admin.Username)
}

func (e *env) createFacility(t *testing.T) id.FacilityID {
	t.Helper()
	facility, err := e.svc.Create(context.Background(),
		authz.Principal{Kind: authz.KindAdmin, AdminID: e.super.ID, ExternalID: "root"},
		service.FacilityInput{Name: "Puskesmas Menteng", CityID: e.cityID, AdminID: e.owner.ID})
	require.NoError(t, err)
	return facility.ID
}

func TestHandleCreateFacility(t *testing.T) {
	e := newEnv(t)
	body := map[string]any{
		"name":     "Puskesmas Menteng",
		"city_id":  e.cityID.String(),
		"address":  "Jl. Pegangsaan 1",
		"admin_id": e.owner.ID.String(),
	}

	t.Run("super-admin", func(t *testing.T) {
		req := e.asAdmin(testutil.NewJSONRequest(t, http.MethodPost, "/health-facilities", body), e.super)
		rr := testutil.DoRequest(e.router, req)

		env, facility := testutil.UnmarshalEnvelope[map[string]any](t, rr)
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "success", env.Message)
		assert.Equal(t, e.owner.ID.String(), (*facility)["admin_id"])
	})

	t.Run("regular admin rejected", func(t *testing.T) {
		req := e.asAdmin(testutil.NewJSONRequest(t, http.MethodPost, "/health-facilities", body), e.owner)
		rr := testutil.DoRequest(e.router, req)
		testutil.AssertErrorMessage(t, rr, http.StatusUnauthorized, "unauthorized to create facility")
	})

	t.Run("invalid city id", func(t *testing.T) {
		bad := map[string]any{"name": "X", "city_id": "not-a-uuid"}
		req := e.asAdmin(testutil.NewJSONRequest(t, http.MethodPost, "/health-facilities", bad), e.super)
		rr := testutil.DoRequest(e.router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestHandleListFacilitiesCityFilter(t *testing.T) {
	e := newEnv(t)
	e.createFacility(t)

	req := e.asAdmin(testutil.NewRequest(t, http.MethodGet, "/health-facilities?city_id="+e.cityID.String()), e.other)
	rr := testutil.DoRequest(e.router, req)

	_, facilities := testutil.UnmarshalEnvelope[[]map[string]any](t, rr)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, *facilities, 1)

	req = e.asAdmin(testutil.NewRequest(t, http.MethodGet, "/health-facilities?city_id="+uuid.NewString()), e.other)
	rr = testutil.DoRequest(e.router, req)
	_, facilities = testutil.UnmarshalEnvelope[[]map[string]any](t, rr)
	assert.Empty(t, *facilities)
}

func TestHandleRecordDistributionStampsFacilityFromPath(t *testing.T) {
	e := newEnv(t)
	facilityID := e.createFacility(t)

	// The body names only the vaccine and quantity; any facility a client
	// might smuggle into the body is ignored because the field doesn't exist.
	body := map[string]any{
		"vaccine_id":  e.vaccine.String(),
		"quantity":    100,
		"facility_id": uuid.NewString(),
	}
	req := e.asAdmin(testutil.NewJSONRequest(t, http.MethodPost, "/health-facilities/"+facilityID.String()+"/vaccines", body), e.owner)
	rr := testutil.DoRequest(e.router, req)

	_, distribution := testutil.UnmarshalEnvelope[map[string]any](t, rr)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, facilityID.String(), (*distribution)["facility_id"])
}

// The API promises this ordering: a missing facility is 404 for everyone;
// 401 only appears once the facility is known to exist.
func TestDistributionErrorOrdering(t *testing.T) {
	e := newEnv(t)
	facilityID := e.createFacility(t)
	body := map[string]any{"vaccine_id": e.vaccine.String(), "quantity": 10}

	t.Run("missing facility is 404 even for non-owner", func(t *testing.T) {
		path := "/health-facilities/" + uuid.NewString() + "/vaccines"
		req := e.asAdmin(testutil.NewJSONRequest(t, http.MethodPost, path, body), e.other)
		rr := testutil.DoRequest(e.router, req)
		testutil.AssertErrorMessage(t, rr, http.StatusNotFound, "health facility not found")
	})

	t.Run("existing facility is 401 for non-owner", func(t *testing.T) {
		path := "/health-facilities/" + facilityID.String() + "/vaccines"
		req := e.asAdmin(testutil.NewJSONRequest(t, http.MethodPost, path, body), e.other)
		rr := testutil.DoRequest(e.router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("malformed facility id is 400", func(t *testing.T) {
		req := e.asAdmin(testutil.NewJSONRequest(t, http.MethodPost, "/health-facilities/not-a-uuid/vaccines", body), e.other)
		rr := testutil.DoRequest(e.router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestHandleRecordDistributionValidation(t *testing.T) {
	e := newEnv(t)
	facilityID := e.createFacility(t)
	path := "/health-facilities/" + facilityID.String() + "/vaccines"

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing vaccine", body: map[string]any{"quantity": 10}},
		{name: "zero quantity", body: map[string]any{"vaccine_id": e.vaccine.String(), "quantity": 0}},
		{name: "negative quantity", body: map[string]any{"vaccine_id": e.vaccine.String(), "quantity": -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.asAdmin(testutil.NewJSONRequest(t, http.MethodPost, path, tt.body), e.owner)
			rr := testutil.DoRequest(e.router, req)
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
		})
	}
}

func TestHandleListDistributions(t *testing.T) {
	e := newEnv(t)
	facilityID := e.createFacility(t)
	ownerPrincipal := authz.Principal{Kind: authz.KindAdmin, AdminID: e.owner.ID, ExternalID: "owner"}

	_, err := e.svc.RecordDistribution(context.Background(), ownerPrincipal, facilityID,
		service.DistributionInput{VaccineID: e.vaccine, Quantity: 42})
	require.NoError(t, err)

	req := e.asAdmin(testutil.NewRequest(t, http.MethodGet, "/health-facilities/"+facilityID.String()+"/vaccines"), e.other)
	rr := testutil.DoRequest(e.router, req)

	_, distributions := testutil.UnmarshalEnvelope[[]map[string]any](t, rr)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, *distributions, 1)
	assert.Equal(t, float64(42), (*distributions)[0]["quantity"])
}
