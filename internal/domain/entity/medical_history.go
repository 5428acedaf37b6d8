package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicalHistory is an uploaded free-form history document for a patient.
type MedicalHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	FileURL     string    `gorm:"type:text" json:"file_url,omitempty"`
	UploadedAt  time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

func (MedicalHistory) TableName() string {
	return "medical_histories"
}

func (h *MedicalHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
