package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateIntentRequest struct {
	AppointmentID uuid.UUID       `json:"appointment_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}

type FakePaymentRequest struct {
	AppointmentID uuid.UUID       `json:"appointment_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}

// Response DTOs

type CreateIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	AppointmentID uuid.UUID       `json:"appointment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Provider      string          `json:"provider"`
	TransactionID string          `json:"transaction_id"`
	Paid          bool            `json:"paid"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type FakePaymentResponse struct {
	AppointmentStatus string          `json:"appointment_status"`
	Payment           PaymentResponse `json:"payment"`
}
