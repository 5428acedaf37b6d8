package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role names
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User is the single account table for patients, doctors and admins.
// Role-specific identifiers are nullable so the sparse unique indexes only
// apply to rows that carry them: NID for patients, BMDC ID for doctors,
// and the generated body ID for patients.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Role         string    `gorm:"type:varchar(20);not null;index" json:"role"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	NID          *string   `gorm:"column:nid;type:varchar(50);uniqueIndex" json:"nid,omitempty"`
	BMDCID       *string   `gorm:"column:bmdc_id;type:varchar(50);uniqueIndex" json:"bmdc_id,omitempty"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	BodyID       *string   `gorm:"column:body_id;type:varchar(20);uniqueIndex" json:"body_id,omitempty"`
	Specialty    string    `gorm:"type:varchar(100)" json:"specialty,omitempty"`
	Verified     bool      `gorm:"not null;default:false" json:"verified"`

	// Doctor-only fields. The rating aggregate is a denormalized running
	// average, updated atomically by the rating usecase.
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`
	AverageRating   float64         `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings    int             `gorm:"not null;default:0" json:"total_ratings"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
