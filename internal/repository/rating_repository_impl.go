package repository

import (
	"errors"

	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	domainRepo "github.com/IshratJahanEkra/BodyId/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ratingRepository struct{}

func NewRatingRepository() domainRepo.RatingRepository {
	return &ratingRepository{}
}

func (r *ratingRepository) Create(db *gorm.DB, rating *entity.Rating) error {
	return db.Create(rating).Error
}

func (r *ratingRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Rating, error) {
	var rating entity.Rating
	err := db.Where("appointment_id = ?", appointmentID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Rating, error) {
	var ratings []entity.Rating
	err := db.Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
