package repository

import (
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryRepository interface {
	Create(db *gorm.DB, history *entity.MedicalHistory) error
	FindByIDAndPatient(db *gorm.DB, id, patientID uuid.UUID) (*entity.MedicalHistory, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalHistory, error)
}
