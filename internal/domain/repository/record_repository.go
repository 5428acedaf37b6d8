package repository

import (
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecordRepository interface {
	Create(db *gorm.DB, record *entity.Record) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Record, error)
	FindByIDAndPatient(db *gorm.DB, id, patientID uuid.UUID) (*entity.Record, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Record, error)

	// FindSharedWith returns records shared with the given doctor, optionally
	// narrowed to one patient.
	FindSharedWith(db *gorm.DB, doctorID uuid.UUID, patientID *uuid.UUID) ([]entity.Record, error)

	Delete(db *gorm.DB, id uuid.UUID) error
	AddShare(db *gorm.DB, record *entity.Record, doctor *entity.User) error
	RemoveShare(db *gorm.DB, record *entity.Record, doctor *entity.User) error
}
