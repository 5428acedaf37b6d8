package converter

import (
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to its response DTO,
// including counterpart identity and attachments when preloaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:          appointment.ID,
		PatientID:   appointment.PatientID,
		DoctorID:    appointment.DoctorID,
		BodyID:      appointment.BodyID,
		RequestedAt: appointment.RequestedAt,
		ScheduledAt: appointment.ScheduledAt,
		Status:      string(appointment.Status),
		Payment: dto.PaymentInfoResponse{
			Amount:   appointment.Payment.Amount,
			Provider: appointment.Payment.Provider,
			Paid:     appointment.Payment.Paid,
		},
		DoctorNotes:     appointment.DoctorNotes,
		PrescriptionURL: appointment.PrescriptionURL,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	if appointment.Payment.PaymentID != nil {
		response.Payment.PaymentID = *appointment.Payment.PaymentID
	}

	if appointment.Patient.ID != uuid.Nil {
		response.Patient = &dto.AppointmentPartyResponse{
			ID:    appointment.Patient.ID,
			Name:  appointment.Patient.Name,
			Email: appointment.Patient.Email,
		}
	}
	if appointment.Doctor.ID != uuid.Nil {
		response.Doctor = &dto.AppointmentPartyResponse{
			ID:    appointment.Doctor.ID,
			Name:  appointment.Doctor.Name,
			Email: appointment.Doctor.Email,
		}
	}

	if len(appointment.Records) > 0 {
		response.Records = RecordsToResponses(appointment.Records)
	}
	if len(appointment.Histories) > 0 {
		response.Histories = HistoriesToResponses(appointment.Histories)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities.
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
