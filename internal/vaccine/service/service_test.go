package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxadmin/internal/authz"
	identitymodels "vaxadmin/internal/identity/models"
	"vaxadmin/internal/vaccine/store"
	id "vaxadmin/pkg/domain"
	dErrors "vaxadmin/pkg/domain-errors"
	"vaxadmin/pkg/requestcontext"
)

// fakeAdmins resolves principals against a fixed set of admin records,
// standing in for the auth service.
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

func newTestService(t *testing.T) (*Service, authz.Principal, authz.Principal) {
	t.Helper()

	super := &identitymodels.Admin{ID: id.AdminID(uuid.New()), Username: "root", SuperAdmin: true}
	regular := &identitymodels.Admin{ID: id.AdminID(uuid.New()), Username: "staff"}
	admins := fakeAdmins{super.ID: super, regular.ID: regular}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store.NewInMemoryVaccineStore(), admins, logger)

	superPrincipal := authz.Principal{Kind: authz.KindAdmin, AdminID: super.ID, ExternalID: "root"}
	regularPrincipal := authz.Principal{Kind: authz.KindAdmin, AdminID: regular.ID, ExternalID: "staff"}
	return svc, superPrincipal, regularPrincipal
}

func validInput() VaccineInput {
	return VaccineInput{Name: "Sinovac", Manufacturer: "Sinovac Biotech", DosesRequired: 2}
}

func TestCreateRequiresSuperAdmin(t *testing.T) {
	svc, super, regular := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, regular, validInput())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "unauthorized to create vaccine", dErrors.MessageOf(err))

	_, err = svc.Create(ctx, authz.Principal{Kind: authz.KindCitizen, UserID: id.UserID(uuid.New())}, validInput())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	vaccine, err := svc.Create(ctx, super, validInput())
	require.NoError(t, err)
	assert.False(t, vaccine.ID.IsZero())
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc, super, _ := newTestService(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	created, err := svc.Create(ctx, super, validInput())
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)

	found, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, found.Name)
	assert.Equal(t, 2, found.DosesRequired)
}

func TestGetMissingVaccine(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), id.VaccineID(uuid.New()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.Equal(t, "vaccine not found", dErrors.MessageOf(err))
}

func TestUpdate(t *testing.T) {
	svc, super, regular := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, super, validInput())
	require.NoError(t, err)

	updated := validInput()
	updated.DosesRequired = 3
	_, err = svc.Update(ctx, regular, created.ID, updated)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	vaccine, err := svc.Update(ctx, super, created.ID, updated)
	require.NoError(t, err)
	assert.Equal(t, 3, vaccine.DosesRequired)

	_, err = svc.Update(ctx, super, id.VaccineID(uuid.New()), updated)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestDelete(t *testing.T) {
	svc, super, regular := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, super, validInput())
	require.NoError(t, err)

	err = svc.Delete(ctx, regular, created.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	require.NoError(t, svc.Delete(ctx, super, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	err = svc.Delete(ctx, super, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListOrdersByCreation(t *testing.T) {
	svc, super, _ := newTestService(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"First", "Second", "Third"} {
		ctx := requestcontext.WithTime(context.Background(), base.Add(time.Duration(i)*time.Minute))
		input := validInput()
		input.Name = name
		_, err := svc.Create(ctx, super, input)
		require.NoError(t, err)
	}

	vaccines, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, vaccines, 3)
	assert.Equal(t, "First", vaccines[0].Name)
	assert.Equal(t, "Third", vaccines[2].Name)
}
