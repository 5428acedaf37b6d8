package jwt

import (
	"testing"
	"time"

	"github.com/IshratJahanEkra/BodyId/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(accessExpiry time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: 24 * time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestService(15 * time.Minute)
	userID := uuid.New()

	token, tokenID, err := service.GenerateAccessToken(userID, "patient")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "patient", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestRefreshTokenCarriesRefreshType(t *testing.T) {
	service := newTestService(15 * time.Minute)

	token, _, err := service.GenerateRefreshToken(uuid.New(), "doctor")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service := newTestService(15 * time.Minute)

	token, _, err := service.GenerateAccessToken(uuid.New(), "patient")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:        "different-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := newTestService(-time.Minute)

	token, _, err := service.GenerateAccessToken(uuid.New(), "patient")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := newTestService(15 * time.Minute)

	_, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestTokenIDsAreUnique(t *testing.T) {
	service := newTestService(15 * time.Minute)
	userID := uuid.New()

	_, first, err := service.GenerateAccessToken(userID, "patient")
	require.NoError(t, err)
	_, second, err := service.GenerateAccessToken(userID, "patient")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
