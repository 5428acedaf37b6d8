package repository

import (
	"errors"

	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	domainRepo "github.com/IshratJahanEkra/BodyId/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type historyRepository struct{}

func NewHistoryRepository() domainRepo.HistoryRepository {
	return &historyRepository{}
}

func (r *historyRepository) Create(db *gorm.DB, history *entity.MedicalHistory) error {
	return db.Create(history).Error
}

func (r *historyRepository) FindByIDAndPatient(db *gorm.DB, id, patientID uuid.UUID) (*entity.MedicalHistory, error) {
	var history entity.MedicalHistory
	err := db.Where("id = ? AND patient_id = ?", id, patientID).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

func (r *historyRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.MedicalHistory, error) {
	var histories []entity.MedicalHistory
	err := db.Where("patient_id = ?", patientID).
		Order("uploaded_at DESC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}
