package repository

import (
	"errors"

	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	domainRepo "github.com/IshratJahanEkra/BodyId/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByNID(db *gorm.DB, nid string) (*entity.User, error) {
	return r.findOne(db, "nid = ?", nid)
}

func (r *userRepository) FindByBMDC(db *gorm.DB, bmdcID string) (*entity.User, error) {
	return r.findOne(db, "bmdc_id = ?", bmdcID)
}

func (r *userRepository) FindDoctorByBMDC(db *gorm.DB, bmdcID string) (*entity.User, error) {
	return r.findOne(db, "bmdc_id = ? AND role = ?", bmdcID, entity.RoleDoctor)
}

func (r *userRepository) FindPatientByBodyID(db *gorm.DB, bodyID string) (*entity.User, error) {
	return r.findOne(db, "body_id = ? AND role = ?", bodyID, entity.RolePatient)
}

func (r *userRepository) BodyIDExists(db *gorm.DB, bodyID string) (bool, error) {
	var count int64
	err := db.Model(&entity.User{}).Where("body_id = ?", bodyID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) ApplyRating(db *gorm.DB, doctorID uuid.UUID, stars int) (int64, error) {
	// Single conditional update: the new average is recomputed from the stored
	// aggregate inside the database, so two concurrent submissions cannot both
	// read the same old count. CAST keeps ROUND portable across backends.
	result := db.Exec(`
		UPDATE users
		SET average_rating = ROUND(CAST(average_rating * total_ratings + ? AS numeric) / (total_ratings + 1.0), 2),
		    total_ratings  = total_ratings + 1
		WHERE id = ? AND role = ?`,
		stars, doctorID, entity.RoleDoctor,
	)
	return result.RowsAffected, result.Error
}

func (r *userRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*entity.User, error) {
	var user entity.User
	err := db.Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
