package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// UploadRecordRequest carries the multipart form fields accompanying the file.
type UploadRecordRequest struct {
	Title       string `json:"title" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Tags        string `json:"tags"`
}

type ShareRecordRequest struct {
	DoctorBMDCID string `json:"doctor_bmdc_id" validate:"required"`
}

// Response DTOs

type SharedDoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	BMDCID    string    `json:"bmdc_id,omitempty"`
	Email     string    `json:"email"`
	Specialty string    `json:"specialty,omitempty"`
}

type RecordResponse struct {
	ID          uuid.UUID              `json:"id"`
	PatientID   uuid.UUID              `json:"patient_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	FileURL     string                 `json:"file_url"`
	FileType    string                 `json:"file_type,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	SharedWith  []SharedDoctorResponse `json:"shared_with,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}
