package repository

import (
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByNID(db *gorm.DB, nid string) (*entity.User, error)
	FindByBMDC(db *gorm.DB, bmdcID string) (*entity.User, error)
	FindDoctorByBMDC(db *gorm.DB, bmdcID string) (*entity.User, error)
	FindPatientByBodyID(db *gorm.DB, bodyID string) (*entity.User, error)
	BodyIDExists(db *gorm.DB, bodyID string) (bool, error)

	// ApplyRating folds one star value into the doctor's running average in a
	// single UPDATE so concurrent submissions cannot lose each other's count.
	ApplyRating(db *gorm.DB, doctorID uuid.UUID, stars int) (int64, error)
}
