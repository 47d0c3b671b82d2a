package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxadmin/internal/authz"
	dErrors "vaxadmin/pkg/domain-errors"
)

func newTestService() *JWTService {
	return NewJWTService("test-signing-key", "vaxadmin", "vaxadmin-api", time.Hour)
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	principal := authz.Principal{Kind: authz.KindAdmin, ExternalID: "root"}

	token, err := svc.GenerateAccessToken(principal, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin_root", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID, "tokens carry a unique jti")
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService()
	principal := authz.Principal{Kind: authz.KindCitizen, ExternalID: "3174012345670001"}

	token, err := svc.GenerateAccessToken(principal, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := newTestService().GenerateAccessToken(authz.Principal{Kind: authz.KindAdmin, ExternalID: "root"}, time.Now())
	require.NoError(t, err)

	other := NewJWTService("different-key", "vaxadmin", "vaxadmin-api", time.Hour)
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongIssuerOrAudience(t *testing.T) {
	token, err := newTestService().GenerateAccessToken(authz.Principal{Kind: authz.KindAdmin, ExternalID: "root"}, time.Now())
	require.NoError(t, err)

	t.Run("issuer", func(t *testing.T) {
		svc := NewJWTService("test-signing-key", "someone-else", "vaxadmin-api", time.Hour)
		_, err := svc.ValidateToken(token)
		assert.Error(t, err)
	})
	t.Run("audience", func(t *testing.T) {
		svc := NewJWTService("test-signing-key", "vaxadmin", "other-api", time.Hour)
		_, err := svc.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestService().ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
