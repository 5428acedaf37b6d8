package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPatientGeneratesBodyID(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	auth, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Role:     entity.RolePatient,
		Name:     "Ayesha Rahman",
		NID:      "1990123456789",
		Email:    "ayesha@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Regexp(t, fmt.Sprintf(`^BID-%s-[0-9A-F]{4}$`, time.Now().Format("20060102")), auth.User.BodyID)
	assert.Equal(t, entity.RolePatient, auth.User.Role)

	// Password hash is never exposed.
	var stored entity.User
	require.NoError(t, db.First(&stored, "email = ?", "ayesha@example.com").Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegisterDoctorHasNoBodyID(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	auth, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Role:            entity.RoleDoctor,
		Name:            "Dr. Karim",
		BMDCID:          "BMDC-4455",
		Email:           "karim@example.com",
		Password:        "password123",
		Specialty:       "Dermatology",
		ConsultationFee: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Empty(t, auth.User.BodyID)
	assert.Equal(t, "Dermatology", auth.User.Specialty)
	assert.True(t, decimal.NewFromInt(500).Equal(auth.User.ConsultationFee))
}

func TestRegisterRejectsMissingIdentifier(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Role:     entity.RolePatient,
		Name:     "No NID",
		Email:    "nonid@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrNIDRequired)

	_, err = uc.Register(context.Background(), &dto.RegisterRequest{
		Role:     entity.RoleDoctor,
		Name:     "No BMDC",
		Email:    "nobmdc@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrBMDCRequired)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	req := &dto.RegisterRequest{
		Role:     entity.RolePatient,
		Name:     "First",
		NID:      "111",
		Email:    "dup@example.com",
		Password: "password123",
	}
	_, err := uc.Register(context.Background(), req)
	require.NoError(t, err)

	req.NID = "222"
	_, err = uc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterDuplicateNID(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	_, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Role:     entity.RolePatient,
		Name:     "First",
		NID:      "333",
		Email:    "first@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), &dto.RegisterRequest{
		Role:     entity.RolePatient,
		Name:     "Second",
		NID:      "333",
		Email:    "second@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrNIDAlreadyExists)
}

func TestLoginWithNIDAndBMDC(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	seedPatient(t, db, "555", "BID-20240101-AAAA")
	seedDoctor(t, db, "BMDC-9", decimal.NewFromInt(300))

	auth, err := uc.Login(context.Background(), &dto.LoginRequest{NID: "555", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RolePatient, auth.User.Role)

	auth, err = uc.Login(context.Background(), &dto.LoginRequest{BMDCID: "BMDC-9", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDoctor, auth.User.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	seedPatient(t, db, "777", "BID-20240101-BBBB")

	_, err := uc.Login(context.Background(), &dto.LoginRequest{NID: "777", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown identifier produces the same error as a wrong password.
	_, err = uc.Login(context.Background(), &dto.LoginRequest{NID: "does-not-exist", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRotates(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	seedPatient(t, db, "888", "BID-20240101-CCCC")

	auth, err := uc.Login(context.Background(), &dto.LoginRequest{NID: "888", Password: "password123"})
	require.NoError(t, err)

	tokens, err := uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: auth.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	// The old refresh token is single-use.
	_, err = uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: auth.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	seedPatient(t, db, "999", "BID-20240101-DDDD")

	auth, err := uc.Login(context.Background(), &dto.LoginRequest{NID: "999", Password: "password123"})
	require.NoError(t, err)

	_, err = uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: auth.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesBothTokens(t *testing.T) {
	db := newTestDB(t)
	uc := NewAuthUsecase(db, quietLogger(), repository.NewUserRepository(), newAuditService(), newTestJWT(), newTestRedis(t))

	seedPatient(t, db, "666", "BID-20240101-EEEE")

	auth, err := uc.Login(context.Background(), &dto.LoginRequest{NID: "666", Password: "password123"})
	require.NoError(t, err)

	accessClaims, err := newTestJWT().ValidateToken(auth.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := newTestJWT().ValidateToken(auth.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), accessClaims.TokenID, refreshClaims.TokenID))

	// A revoked refresh token cannot mint a new token pair.
	_, err = uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: auth.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
