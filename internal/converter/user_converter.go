package converter

import (
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
)

// UserToResponse converts a User entity to its public view. The password hash
// never leaves the entity layer.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:              user.ID,
		Role:            user.Role,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		Specialty:       user.Specialty,
		ConsultationFee: user.ConsultationFee,
		AverageRating:   user.AverageRating,
		TotalRatings:    user.TotalRatings,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}

	if user.NID != nil {
		response.NID = *user.NID
	}
	if user.BMDCID != nil {
		response.BMDCID = *user.BMDCID
	}
	if user.BodyID != nil {
		response.BodyID = *user.BodyID
	}

	return response
}

// UserToSharedDoctor converts a doctor User to the share-list projection.
func UserToSharedDoctor(user *entity.User) dto.SharedDoctorResponse {
	response := dto.SharedDoctorResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Specialty: user.Specialty,
	}
	if user.BMDCID != nil {
		response.BMDCID = *user.BMDCID
	}
	return response
}
