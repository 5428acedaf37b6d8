package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type RegisterRequest struct {
	Role     string `json:"role" validate:"required,oneof=patient doctor"`
	Name     string `json:"name" validate:"required,max=255"`
	NID      string `json:"nid" validate:"omitempty,max=50"`
	BMDCID   string `json:"bmdc_id" validate:"omitempty,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Password string `json:"password" validate:"required,min=8"`

	// Doctor-only optional fields
	Specialty       string          `json:"specialty" validate:"omitempty,max=100"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
}

// LoginRequest carries the role-specific identifier: patients send their NID,
// doctors their BMDC ID. Either field is accepted.
type LoginRequest struct {
	NID      string `json:"nid"`
	BMDCID   string `json:"bmdc_id"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type UserResponse struct {
	ID              uuid.UUID       `json:"id"`
	Role            string          `json:"role"`
	Name            string          `json:"name"`
	NID             string          `json:"nid,omitempty"`
	BMDCID          string          `json:"bmdc_id,omitempty"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone,omitempty"`
	BodyID          string          `json:"body_id,omitempty"`
	Specialty       string          `json:"specialty,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	AverageRating   float64         `json:"average_rating"`
	TotalRatings    int             `json:"total_ratings"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
