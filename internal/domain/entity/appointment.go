package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment.
// Forward path: pending -> paid -> confirmed -> completed.
// Terminal side branches: rejected (from pending/paid) and cancelled
// (from pending/paid/confirmed).
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusPaid      AppointmentStatus = "paid"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// ValidAppointmentStatus reports whether s is one of the six enumerated values.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusPaid, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusRejected, AppointmentStatusCancelled:
		return true
	}
	return false
}

// PaymentInfo is the payment sub-record embedded in an appointment.
// Paid can flip to true exactly once; the conditional update in the
// appointment repository enforces that.
type PaymentInfo struct {
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	Provider  string          `gorm:"type:varchar(20);not null;default:'stripe'" json:"provider"`
	Paid      bool            `gorm:"not null;default:false" json:"paid"`
	PaymentID *string         `gorm:"type:varchar(255)" json:"payment_id,omitempty"`
}

// Appointment is one scheduled consultation between exactly one patient and
// one doctor. BodyID is a denormalized copy of the patient's body ID taken at
// creation time.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	BodyID      string            `gorm:"column:body_id;type:varchar(20);not null" json:"body_id"`
	RequestedAt time.Time         `gorm:"not null" json:"requested_at"`
	ScheduledAt time.Time         `gorm:"not null" json:"scheduled_at"`
	Status      AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	Payment PaymentInfo `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`

	DoctorNotes     string `gorm:"type:text" json:"doctor_notes,omitempty"`
	PrescriptionURL string `gorm:"type:text" json:"prescription_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient   User             `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor    User             `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Records   []Record         `gorm:"many2many:appointment_records" json:"records,omitempty"`
	Histories []MedicalHistory `gorm:"many2many:appointment_histories" json:"histories,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether the appointment can no longer move forward.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case AppointmentStatusCompleted, AppointmentStatusRejected, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Rateable reports whether a rating may be submitted for this appointment.
func (a *Appointment) Rateable() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusConfirmed
}
