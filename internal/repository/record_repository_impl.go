package repository

import (
	"errors"

	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	domainRepo "github.com/IshratJahanEkra/BodyId/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recordRepository struct{}

func NewRecordRepository() domainRepo.RecordRepository {
	return &recordRepository{}
}

func (r *recordRepository) Create(db *gorm.DB, record *entity.Record) error {
	return db.Create(record).Error
}

func (r *recordRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Record, error) {
	var record entity.Record
	err := db.Preload("SharedWith").Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) FindByIDAndPatient(db *gorm.DB, id, patientID uuid.UUID) (*entity.Record, error) {
	var record entity.Record
	err := db.Preload("SharedWith").
		Where("id = ? AND patient_id = ?", id, patientID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Record, error) {
	var records []entity.Record
	err := db.Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) FindSharedWith(db *gorm.DB, doctorID uuid.UUID, patientID *uuid.UUID) ([]entity.Record, error) {
	query := db.Preload("Patient").
		Joins("JOIN record_shares ON record_shares.record_id = records.id").
		Where("record_shares.user_id = ?", doctorID)
	if patientID != nil {
		query = query.Where("records.patient_id = ?", *patientID)
	}

	var records []entity.Record
	err := query.Order("records.created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Delete(&entity.Record{}, "id = ?", id).Error
}

func (r *recordRepository) AddShare(db *gorm.DB, record *entity.Record, doctor *entity.User) error {
	return db.Model(record).Association("SharedWith").Append(doctor)
}

func (r *recordRepository) RemoveShare(db *gorm.DB, record *entity.Record, doctor *entity.User) error {
	return db.Model(record).Association("SharedWith").Delete(doctor)
}
