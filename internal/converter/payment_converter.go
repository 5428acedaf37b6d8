package converter

import (
	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
)

// PaymentToResponse converts a Payment audit entity to its response DTO.
func PaymentToResponse(payment *entity.Payment) *dto.PaymentResponse {
	if payment == nil {
		return nil
	}

	return &dto.PaymentResponse{
		ID:            payment.ID,
		AppointmentID: payment.AppointmentID,
		Amount:        payment.Amount,
		Provider:      payment.Provider,
		TransactionID: payment.TransactionID,
		Paid:          payment.Paid,
		Status:        payment.Status,
		CreatedAt:     payment.CreatedAt,
	}
}
