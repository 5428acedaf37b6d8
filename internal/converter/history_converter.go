package converter

import (
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
)

// HistoryToResponse converts a MedicalHistory entity to its response DTO.
func HistoryToResponse(history *entity.MedicalHistory) *dto.HistoryResponse {
	if history == nil {
		return nil
	}

	return &dto.HistoryResponse{
		ID:          history.ID,
		PatientID:   history.PatientID,
		Description: history.Description,
		FileURL:     history.FileURL,
		UploadedAt:  history.UploadedAt,
	}
}

// HistoriesToResponses converts a slice of MedicalHistory entities.
func HistoriesToResponses(histories []entity.MedicalHistory) []dto.HistoryResponse {
	responses := make([]dto.HistoryResponse, len(histories))
	for i, history := range histories {
		resp := HistoryToResponse(&history)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
