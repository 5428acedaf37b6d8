package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UUIDList accepts either a single id or an array of ids in JSON, matching
// how clients attach records to an appointment.
type UUIDList []uuid.UUID

func (l *UUIDList) UnmarshalJSON(data []byte) error {
	var many []uuid.UUID
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one uuid.UUID
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = UUIDList{one}
	return nil
}

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID          uuid.UUID `json:"doctor_id" validate:"required"`
	ScheduledAt       time.Time `json:"scheduled_at" validate:"required"`
	AttachedRecordIDs UUIDList  `json:"attached_record_ids"`
	AttachedHistories UUIDList  `json:"attached_medical_history_ids"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type VisitNotesRequest struct {
	DoctorNotes     string `json:"doctor_notes"`
	PrescriptionURL string `json:"prescription_url"`
}

// Response DTOs

type PaymentInfoResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Provider  string          `json:"provider"`
	Paid      bool            `json:"paid"`
	PaymentID string          `json:"payment_id,omitempty"`
}

type AppointmentPartyResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type AppointmentResponse struct {
	ID              uuid.UUID                 `json:"id"`
	PatientID       uuid.UUID                 `json:"patient_id"`
	DoctorID        uuid.UUID                 `json:"doctor_id"`
	BodyID          string                    `json:"body_id"`
	RequestedAt     time.Time                 `json:"requested_at"`
	ScheduledAt     time.Time                 `json:"scheduled_at"`
	Status          string                    `json:"status"`
	Payment         PaymentInfoResponse       `json:"payment"`
	DoctorNotes     string                    `json:"doctor_notes,omitempty"`
	PrescriptionURL string                    `json:"prescription_url,omitempty"`
	Patient         *AppointmentPartyResponse `json:"patient,omitempty"`
	Doctor          *AppointmentPartyResponse `json:"doctor,omitempty"`
	Records         []RecordResponse          `json:"records,omitempty"`
	Histories       []HistoryResponse         `json:"histories,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
