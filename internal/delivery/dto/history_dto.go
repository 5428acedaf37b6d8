package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadHistoryRequest struct {
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type HistoryResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type HistoryListResponse struct {
	Histories []HistoryResponse `json:"histories"`
	Total     int               `json:"total"`
}
