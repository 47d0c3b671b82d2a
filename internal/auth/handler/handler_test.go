package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxadmin/internal/auth/service"
	"vaxadmin/internal/identity/models"
	"vaxadmin/internal/identity/store"
	jwttoken "vaxadmin/internal/jwt_token"
	"vaxadmin/internal/registry"
	"vaxadmin/pkg/testutil"
)

const knownNIK = "3174012345670001"

func newTestRouter(t *testing.T) (chi.Router, *service.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	citizens := registry.NewStaticClient(registry.CitizenRecord{
		NIK: knownNIK, Name: "Siti Rahma", Gender: "female", DateOfBirth: "1990-01-15",
	})
	tokens := jwttoken.NewJWTService("test-key", "vaxadmin", "vaxadmin-api", time.Hour)
	svc := service.NewService(store.NewInMemoryAdminStore(), store.NewInMemoryUserStore(), citizens, tokens, logger)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.RegisterPublic(r)
	h.RegisterAuthenticated(r)
	return r, svc
}

func TestHandleRegister(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", map[string]any{
		"nik":      knownNIK,
		"name":     "Siti",
		"password": "correct-horse-battery",
	})
	rr := testutil.DoRequest(r, req)

	env, user := testutil.UnmarshalEnvelope[map[string]any](t, rr)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "success", env.Message)
	assert.Equal(t, http.StatusCreated, env.Code)
	assert.Equal(t, knownNIK, (*user)["nik"])
	assert.Equal(t, "female", (*user)["gender"], "gender comes from the registry")
	assert.NotContains(t, *user, "password_hash", "hashes never leave the server")
}

func TestHandleRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing nik", body: map[string]any{"name": "Siti", "password": "longenough1"}},
		{name: "short password", body: map[string]any{"nik": knownNIK, "name": "Siti", "password": "short"}},
		{name: "missing name", body: map[string]any{"nik": knownNIK, "password": "longenough1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", tt.body))
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
		})
	}
}

func TestHandleRegisterUnknownNIK(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", map[string]any{
		"nik":      "0000000000000000",
		"name":     "Ghost",
		"password": "correct-horse-battery",
	})
	rr := testutil.DoRequest(r, req)
	testutil.AssertErrorMessage(t, rr, http.StatusBadRequest, "nik not found")
}

func TestHandleLogin(t *testing.T) {
	r, svc := newTestRouter(t)
	registerUser(t, svc)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]any{
		"nik":      knownNIK,
		"password": "correct-horse-battery",
	}))

	env, token := testutil.UnmarshalEnvelope[map[string]string](t, rr)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", env.Message)
	assert.NotEmpty(t, (*token)["access_token"])
}

func TestHandleLoginTrimsNIK(t *testing.T) {
	r, svc := newTestRouter(t)
	registerUser(t, svc)

	// Copy-pasted niks arrive padded; the stored record was created from the
	// trimmed form, so login must normalize the same way.
	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]any{
		"nik":      "  " + knownNIK + " ",
		"password": "correct-horse-battery",
	}))

	_, token := testutil.UnmarshalEnvelope[map[string]string](t, rr)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, (*token)["access_token"])
}

func TestHandleLoginBadCredentials(t *testing.T) {
	r, svc := newTestRouter(t)
	registerUser(t, svc)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]any{
		"nik":      knownNIK,
		"password": "wrong-password",
	}))
	testutil.AssertErrorMessage(t, rr, http.StatusUnauthorized, "invalid credentials")
}

func TestHandleMe(t *testing.T) {
	r, svc := newTestRouter(t)
	user := registerUser(t, svc)

	t.Run("citizen", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/auth/me")
		req = testutil.WithCitizenPrincipal(req, user.ID, user.NIK.String())
		rr := testutil.DoRequest(r, req)

		_, me := testutil.UnmarshalEnvelope[map[string]any](t, rr)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, user.ID.String(), (*me)["id"])
	})

	t.Run("anonymous", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/auth/me"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func registerUser(t *testing.T, svc *service.Service) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), service.RegisterRequest{
		NIK:      knownNIK,
		Name:     "Siti",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	return user
}
