package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment providers
const (
	PaymentProviderStripe = "stripe"
	PaymentProviderFake   = "fake"
)

// Payment transaction states
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
)

// Payment is the audit row written for every payment transaction, including
// the demo shortcut. The appointment's embedded payment sub-record remains
// the source of truth for the paid flag.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID       `gorm:"type:uuid;not null;index" json:"appointment_id"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID       `gorm:"type:uuid;not null" json:"doctor_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Provider      string          `gorm:"type:varchar(20);not null;default:'fake'" json:"provider"`
	TransactionID string          `gorm:"type:varchar(255);not null" json:"transaction_id"`
	Paid          bool            `gorm:"not null;default:false" json:"paid"`
	Status        string          `gorm:"type:varchar(20);not null;default:'initiated'" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
