package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList stores a list of strings as a JSONB column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal JSONB value:", value))
	}

	var result []string
	err := json.Unmarshal(bytes, &result)
	*l = StringList(result)
	return err
}

// Record is an uploaded medical record file: metadata plus the storage URL
// and the storage-side public ID used for deletion. SharedWith is the set of
// doctors the owning patient granted access to.
type Record struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	Title        string     `gorm:"type:varchar(255)" json:"title"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	FileURL      string     `gorm:"type:text;not null" json:"file_url"`
	FilePublicID string     `gorm:"type:varchar(255)" json:"file_public_id,omitempty"`
	FileType     string     `gorm:"type:varchar(100)" json:"file_type,omitempty"`
	Tags         StringList `gorm:"type:jsonb" json:"tags,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Patient    User   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	SharedWith []User `gorm:"many2many:record_shares" json:"shared_with,omitempty"`
}

func (Record) TableName() string {
	return "records"
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SharedWithUser reports whether the record has been shared with the user.
func (r *Record) SharedWithUser(userID uuid.UUID) bool {
	for _, u := range r.SharedWith {
		if u.ID == userID {
			return true
		}
	}
	return false
}
