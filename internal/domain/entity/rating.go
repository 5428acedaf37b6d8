package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one patient's anonymous feedback for one appointment. The unique
// index on AppointmentID enforces at most one rating per appointment. The
// patient reference is retained for duplicate prevention and audit but never
// exposed through read APIs.
type Rating struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	Stars         int       `gorm:"not null" json:"stars"`
	Comment       string    `gorm:"type:text" json:"comment,omitempty"`
	Anonymous     bool      `gorm:"not null;default:true" json:"anonymous"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
