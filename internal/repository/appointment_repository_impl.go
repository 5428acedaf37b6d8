package repository

import (
	"errors"

	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	domainRepo "github.com/IshratJahanEkra/BodyId/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.withRelations(db).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.withRelations(db).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.withRelations(db).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindForRating(db *gorm.DB, id, patientID, doctorID uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ? AND patient_id = ? AND doctor_id = ?", id, patientID, doctorID).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) MarkPaid(db *gorm.DB, id uuid.UUID, amount decimal.Decimal, provider, paymentID string) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND payment_paid = ?", id, false).
		Updates(map[string]interface{}{
			"status":             entity.AppointmentStatusPaid,
			"payment_paid":       true,
			"payment_amount":     amount,
			"payment_provider":   provider,
			"payment_payment_id": paymentID,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) SetVisitNotes(db *gorm.DB, id uuid.UUID, notes, prescriptionURL string) (int64, error) {
	updates := map[string]interface{}{
		"status": entity.AppointmentStatusCompleted,
	}
	if notes != "" {
		updates["doctor_notes"] = notes
	}
	if prescriptionURL != "" {
		updates["prescription_url"] = prescriptionURL
	}
	result := db.Model(&entity.Appointment{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) ExistsForDoctorAndPatient(db *gorm.DB, doctorID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Patient").Preload("Doctor").Preload("Records").Preload("Histories")
}
