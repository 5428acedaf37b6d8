package repository

import (
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(db *gorm.DB, rating *entity.Rating) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Rating, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Rating, error)
}
