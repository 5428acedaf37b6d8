package converter

import (
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
)

// RecordToResponse converts a Record entity to its response DTO.
func RecordToResponse(record *entity.Record) *dto.RecordResponse {
	if record == nil {
		return nil
	}

	response := &dto.RecordResponse{
		ID:          record.ID,
		PatientID:   record.PatientID,
		Title:       record.Title,
		Description: record.Description,
		FileURL:     record.FileURL,
		FileType:    record.FileType,
		Tags:        record.Tags,
		CreatedAt:   record.CreatedAt,
	}

	for i := range record.SharedWith {
		response.SharedWith = append(response.SharedWith, UserToSharedDoctor(&record.SharedWith[i]))
	}

	return response
}

// RecordsToResponses converts a slice of Record entities.
func RecordsToResponses(records []entity.Record) []dto.RecordResponse {
	responses := make([]dto.RecordResponse, len(records))
	for i, record := range records {
		resp := RecordToResponse(&record)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
