package converter

import (
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
)

// RatingToResponse converts a Rating entity to its anonymized response. The
// patient reference is deliberately never mapped.
func RatingToResponse(rating *entity.Rating) *dto.RatingResponse {
	if rating == nil {
		return nil
	}

	return &dto.RatingResponse{
		ID:        rating.ID,
		Stars:     rating.Stars,
		Comment:   rating.Comment,
		Anonymous: true,
		CreatedAt: rating.CreatedAt,
	}
}

// RatingsToResponses converts a slice of Rating entities.
func RatingsToResponses(ratings []entity.Rating) []dto.RatingResponse {
	responses := make([]dto.RatingResponse, len(ratings))
	for i, rating := range ratings {
		resp := RatingToResponse(&rating)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
