package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SubmitRatingRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Stars         *int      `json:"stars" validate:"required"`
	Comment       string    `json:"comment" validate:"omitempty,max=2000"`
}

// Response DTOs

// RatingResponse never carries the submitting patient: ratings are anonymous
// on every read path.
type RatingResponse struct {
	ID        uuid.UUID `json:"id"`
	Stars     int       `json:"stars"`
	Comment   string    `json:"comment,omitempty"`
	Anonymous bool      `json:"anonymous"`
	CreatedAt time.Time `json:"created_at"`
}

type RatingListResponse struct {
	Ratings []RatingResponse `json:"ratings"`
	Total   int              `json:"total"`
}
