package httpapi_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authhandler "vaxadmin/internal/auth/handler"
	authservice "vaxadmin/internal/auth/service"
	facilityhandler "vaxadmin/internal/facility/handler"
	facilityservice "vaxadmin/internal/facility/service"
	facilitystore "vaxadmin/internal/facility/store"
	httpapi "vaxadmin/internal/http"
	identitymodels "vaxadmin/internal/identity/models"
	identitystore "vaxadmin/internal/identity/store"
	jwttoken "vaxadmin/internal/jwt_token"
	"vaxadmin/internal/registry"
	vaccinehandler "vaxadmin/internal/vaccine/handler"
	vaccineservice "vaxadmin/internal/vaccine/service"
	vaccinestore "vaxadmin/internal/vaccine/store"
	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/testutil"
)

const knownNIK = "3174012345670001"

// newApp assembles the full HTTP surface on in-memory backends, the same
// wiring main uses minus Postgres and Redis.
func newApp(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admins := identitystore.NewInMemoryAdminStore()
	users := identitystore.NewInMemoryUserStore()
	citizens := registry.NewStaticClient(registry.CitizenRecord{
		NIK: knownNIK, Name: "Siti Rahma", Gender: "female", DateOfBirth: "1990-01-15",
	})
	tokens := jwttoken.NewJWTService("test-key", "vaxadmin", "vaxadmin-api", time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, admins.Create(context.Background(), &identitymodels.Admin{
		ID:           id.AdminID(uuid.New()),
		Username:     "root",
		PasswordHash: string(hash),
		SuperAdmin:   true,
		CreatedAt:    time.Now(),
	}))

	authSvc := authservice.NewService(admins, users, citizens, tokens, logger)
	vaccineSvc := vaccineservice.NewService(vaccinestore.NewInMemoryVaccineStore(), authSvc, logger)
	facilitySvc := facilityservice.NewService(facilitystore.NewInMemoryFacilityStore(),
		facilitystore.NewInMemoryDistributionStore(), authSvc, admins, vaccineSvc, logger)

	return httpapi.NewRouter(httpapi.RouterDeps{
		Auth:       authhandler.New(authSvc, logger),
		Vaccines:   vaccinehandler.New(vaccineSvc, logger),
		Facilities: facilityhandler.New(facilitySvc, logger),
		Validator:  tokens,
		Resolver:   authSvc,
		Logger:     logger,
	})
}

func loginAdmin(t *testing.T, app http.Handler) string {
	t.Helper()
	rr := testutil.DoRequest(app, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/admin/login",
		map[string]any{"username": "root", "password": "admin-password"}))
	require.Equal(t, http.StatusOK, rr.Code)
	_, token := testutil.UnmarshalEnvelope[map[string]string](t, rr)
	require.NotEmpty(t, (*token)["access_token"])
	return (*token)["access_token"]
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRouterEndToEnd(t *testing.T) {
	testutil.Given(t, "the assembled API", func(t *testing.T) {
		app := newApp(t)

		testutil.When(t, "a citizen registers and logs in", func(t *testing.T) {
			rr := testutil.DoRequest(app, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/register",
				map[string]any{"nik": knownNIK, "name": "Siti", "password": "correct-horse-battery"}))
			require.Equal(t, http.StatusCreated, rr.Code)

			rr = testutil.DoRequest(app, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/login",
				map[string]any{"nik": knownNIK, "password": "correct-horse-battery"}))
			require.Equal(t, http.StatusOK, rr.Code)
			_, token := testutil.UnmarshalEnvelope[map[string]string](t, rr)

			testutil.Then(t, "the issued token reaches authenticated endpoints", func(t *testing.T) {
				req := withBearer(testutil.NewRequest(t, http.MethodGet, "/api/v1/auth/me"), (*token)["access_token"])
				rr := testutil.DoRequest(app, req)
				require.Equal(t, http.StatusOK, rr.Code)
				_, me := testutil.UnmarshalEnvelope[map[string]any](t, rr)
				assert.Equal(t, knownNIK, (*me)["nik"])
			})
		})

		testutil.When(t, "a super-admin manages the catalog over HTTP", func(t *testing.T) {
			token := loginAdmin(t, app)

			req := withBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/vaccines",
				map[string]any{"name": "Sinovac", "manufacturer": "Sinovac Biotech", "doses_required": 2}), token)
			rr := testutil.DoRequest(app, req)
			require.Equal(t, http.StatusCreated, rr.Code)
			_, vaccine := testutil.UnmarshalEnvelope[map[string]any](t, rr)
			vaccineID := (*vaccine)["id"].(string)

			testutil.Then(t, "the vaccine shows up in the list", func(t *testing.T) {
				req := withBearer(testutil.NewRequest(t, http.MethodGet, "/api/v1/vaccines"), token)
				rr := testutil.DoRequest(app, req)
				require.Equal(t, http.StatusOK, rr.Code)
				_, vaccines := testutil.UnmarshalEnvelope[[]map[string]any](t, rr)
				require.Len(t, *vaccines, 1)
				assert.Equal(t, vaccineID, (*vaccines)[0]["id"])
			})
		})

		testutil.When(t, "catalog reads carry no token", func(t *testing.T) {
			rr := testutil.DoRequest(app, testutil.NewRequest(t, http.MethodGet, "/api/v1/vaccines"))
			require.Equal(t, http.StatusOK, rr.Code)
			_, vaccines := testutil.UnmarshalEnvelope[[]map[string]any](t, rr)
			assert.NotEmpty(t, *vaccines)

			rr = testutil.DoRequest(app, testutil.NewRequest(t, http.MethodGet, "/api/v1/health-facilities"))
			testutil.AssertStatus(t, rr, http.StatusOK)
		})

		testutil.When(t, "a write carries no token", func(t *testing.T) {
			rr := testutil.DoRequest(app, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/vaccines",
				map[string]any{"name": "Sinovac", "doses_required": 2}))
			testutil.AssertStatus(t, rr, http.StatusUnauthorized)

			rr = testutil.DoRequest(app, testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/health-facilities",
				map[string]any{"name": "Puskesmas", "city_id": uuid.NewString()}))
			testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		})

		testutil.When(t, "a write carries a garbage token", func(t *testing.T) {
			req := withBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/vaccines",
				map[string]any{"name": "Sinovac", "doses_required": 2}), "not.a.token")
			rr := testutil.DoRequest(app, req)
			testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		})
	})
}

func TestRouterDistributionFlow(t *testing.T) {
	app := newApp(t)
	token := loginAdmin(t, app)

	// Catalog entry and facility owned by nobody; the super-admin records the
	// distribution.
	rr := testutil.DoRequest(app, withBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/vaccines",
		map[string]any{"name": "Sinovac", "doses_required": 2}), token))
	require.Equal(t, http.StatusCreated, rr.Code)
	_, vaccine := testutil.UnmarshalEnvelope[map[string]any](t, rr)

	rr = testutil.DoRequest(app, withBearer(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/health-facilities",
		map[string]any{"name": "Puskesmas Menteng", "city_id": uuid.NewString()}), token))
	require.Equal(t, http.StatusCreated, rr.Code)
	_, facility := testutil.UnmarshalEnvelope[map[string]any](t, rr)
	facilityID := (*facility)["id"].(string)

	rr = testutil.DoRequest(app, withBearer(testutil.NewJSONRequest(t, http.MethodPost,
		"/api/v1/health-facilities/"+facilityID+"/vaccines",
		map[string]any{"vaccine_id": (*vaccine)["id"], "quantity": 500}), token))
	require.Equal(t, http.StatusCreated, rr.Code)

	// Distribution history is readable without a token, like the rest of the
	// catalog.
	rr = testutil.DoRequest(app, testutil.NewRequest(t, http.MethodGet,
		"/api/v1/health-facilities/"+facilityID+"/vaccines"))
	require.Equal(t, http.StatusOK, rr.Code)
	_, distributions := testutil.UnmarshalEnvelope[[]map[string]any](t, rr)
	require.Len(t, *distributions, 1)
	assert.Equal(t, float64(500), (*distributions)[0]["quantity"])
	assert.Equal(t, facilityID, (*distributions)[0]["facility_id"])
}

func TestHealthz(t *testing.T) {
	app := newApp(t)
	rr := testutil.DoRequest(app, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
