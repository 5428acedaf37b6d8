package repository

import (
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(db *gorm.DB, payment *entity.Payment) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.Payment, error)
}
