package repository

import (
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	domainRepo "github.com/IshratJahanEkra/BodyId/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRepository struct{}

func NewPaymentRepository() domainRepo.PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(db *gorm.DB, payment *entity.Payment) error {
	return db.Create(payment).Error
}

func (r *paymentRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := db.Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
