package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IshratJahanEkra/BodyId/internal/converter"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/domain/repository"
	"github.com/IshratJahanEkra/BodyId/internal/service"
	"github.com/IshratJahanEkra/BodyId/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrNIDAlreadyExists   = errors.New("NID already exists")
	ErrBMDCAlreadyExists  = errors.New("BMDC ID already exists")
	ErrNIDRequired        = errors.New("NID is required for patient registration")
	ErrBMDCRequired       = errors.New("BMDC ID is required for doctor registration")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")

	// ErrBodyIDExhausted is returned when body ID generation keeps colliding
	// with existing IDs. Registration is rejected rather than retried forever.
	ErrBodyIDExhausted = errors.New("could not generate a unique body ID")
)

const bodyIDMaxAttempts = 5

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	redisClient  *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		auditService: auditService,
		jwtService:   jwtService,
		redisClient:  redisClient,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Role == entity.RolePatient && req.NID == "" {
		return nil, ErrNIDRequired
	}
	if req.Role == entity.RoleDoctor && req.BMDCID == "" {
		return nil, ErrBMDCRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Role:         req.Role,
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
	}

	switch req.Role {
	case entity.RolePatient:
		nid := req.NID
		user.NID = &nid

		bodyID, err := u.generateBodyID(tx)
		if err != nil {
			return nil, err
		}
		user.BodyID = &bodyID
	case entity.RoleDoctor:
		bmdcID := req.BMDCID
		user.BMDCID = &bmdcID
		user.Specialty = req.Specialty
		user.ConsultationFee = req.ConsultationFee
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isDuplicateKeyError(err, "nid") {
			return nil, ErrNIDAlreadyExists
		}
		if isDuplicateKeyError(err, "bmdc_id") {
			return nil, ErrBMDCAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	u.auditService.Log(tx, &user.ID, entity.AuditActionUserRegister, entity.JSON{
		"role":  user.Role,
		"email": user.Email,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		User:         *converter.UserToResponse(user),
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var (
		user *entity.User
		err  error
	)

	// Patients authenticate with their NID, doctors with their BMDC ID.
	switch {
	case req.NID != "":
		user, err = u.userRepo.FindByNID(u.db.WithContext(ctx), req.NID)
	case req.BMDCID != "":
		user, err = u.userRepo.FindByBMDC(u.db.WithContext(ctx), req.BMDCID)
	default:
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		u.log.Warnf("Failed to find user for login: %+v", err)
		return nil, err
	}

	// Unknown identifier and wrong password are indistinguishable to the caller.
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	u.auditService.Log(u.db.WithContext(ctx), &user.ID, entity.AuditActionUserLogin, entity.JSON{
		"role": user.Role,
	})

	return &dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		User:         *converter.UserToResponse(user),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshTokenID string) error {
	// Delete tokens from Redis (pattern matching to find and delete)
	accessPattern := fmt.Sprintf("access_token:*:%s", accessTokenID)

	accessKeys, err := u.redisClient.Keys(ctx, accessPattern).Result()
	if err != nil {
		u.log.Warnf("Failed to get access token keys: %+v", err)
		return err
	}
	if len(accessKeys) > 0 {
		if err := u.redisClient.Del(ctx, accessKeys...).Err(); err != nil {
			u.log.Warnf("Failed to delete access token: %+v", err)
			return err
		}
	}

	if refreshTokenID != "" {
		refreshPattern := fmt.Sprintf("refresh_token:*:%s", refreshTokenID)

		refreshKeys, err := u.redisClient.Keys(ctx, refreshPattern).Result()
		if err != nil {
			u.log.Warnf("Failed to get refresh token keys: %+v", err)
			return err
		}
		if len(refreshKeys) > 0 {
			if err := u.redisClient.Del(ctx, refreshKeys...).Err(); err != nil {
				u.log.Warnf("Failed to delete refresh token: %+v", err)
				return err
			}
		}
	}

	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Check if refresh token exists in Redis
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.UserID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	// Rotate: the old refresh token is single-use.
	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user := &entity.User{ID: claims.UserID, Role: claims.Role}
	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by id: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	// Store tokens in Redis
	accessKey := fmt.Sprintf("access_token:%s:%s", user.ID.String(), accessTokenID)
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", user.ID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// generateBodyID generates a unique patient body ID: BID-YYYYMMDD-XXXX.
// The random suffix keeps IDs non-guessable; a handful of attempts is enough
// in practice, and exhaustion rejects the registration.
func (u *authUsecase) generateBodyID(tx *gorm.DB) (string, error) {
	dateStr := time.Now().Format("20060102")

	for attempt := 0; attempt < bodyIDMaxAttempts; attempt++ {
		randomBytes := make([]byte, 2)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", err
		}
		bodyID := fmt.Sprintf("BID-%s-%04X", dateStr, randomBytes)

		exists, err := u.userRepo.BodyIDExists(tx, bodyID)
		if err != nil {
			u.log.Warnf("Failed to check body ID uniqueness: %+v", err)
			return "", err
		}
		if !exists {
			return bodyID, nil
		}
	}

	return "", ErrBodyIDExhausted
}

// isDuplicateKeyError checks if the error is a unique constraint violation
// touching the given column. Postgres reports code 23505 with the constraint
// name; other drivers embed the column in the error message.
func isDuplicateKeyError(err error, column string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), column)
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") && strings.Contains(msg, column)
}
