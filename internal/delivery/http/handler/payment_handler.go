package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/middleware"
	"github.com/IshratJahanEkra/BodyId/internal/service"
	"github.com/IshratJahanEkra/BodyId/internal/usecase"
	"github.com/IshratJahanEkra/BodyId/pkg/response"
	"github.com/IshratJahanEkra/BodyId/pkg/validator"
)

// webhookBodyLimit caps how much of a webhook payload is read. Stripe events
// are far smaller than this.
const webhookBodyLimit = 1 << 20

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

// CreateIntent starts a card payment for an appointment
// @Summary Create payment intent
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateIntentRequest true "Intent Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/create-intent [post]
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req dto.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	intent, err := h.paymentUsecase.CreateIntent(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParticipant:
			response.Forbidden(w, "You are not the patient for this appointment")
		case usecase.ErrAlreadyPaid:
			response.Conflict(w, "Appointment is already paid")
		case usecase.ErrAppointmentNotOpen:
			response.Conflict(w, "Appointment is not awaiting payment")
		case usecase.ErrInvalidAmount, usecase.ErrAmountMismatch:
			response.BadRequest(w, err.Error())
		default:
			response.UpstreamFailure(w, "Failed to create payment intent")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment intent created successfully", intent)
}

// Webhook receives payment processor events
// @Summary Payment webhook
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		response.BadRequest(w, "Failed to read webhook payload")
		return
	}

	signature := r.Header.Get("Stripe-Signature")

	if err := h.paymentUsecase.HandleWebhook(r.Context(), payload, signature); err != nil {
		switch err {
		case service.ErrInvalidSignature:
			response.BadRequest(w, "Webhook signature verification failed")
		default:
			response.InternalServerError(w, "Failed to process webhook")
		}
		return
	}

	response.Success(w, http.StatusOK, "Webhook processed", nil)
}

// FakePayment settles an appointment without a processor (demo environments only)
// @Summary Fake payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FakePaymentRequest true "Fake Payment Request"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/fake-payment [post]
func (h *PaymentHandler) FakePayment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req dto.FakePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.paymentUsecase.FakePayment(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrPaymentDisabled:
			response.Forbidden(w, "Fake payment is not enabled")
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParticipant:
			response.Forbidden(w, "You are not the patient for this appointment")
		case usecase.ErrAlreadyPaid:
			response.Conflict(w, "Appointment is already paid")
		case usecase.ErrInvalidAmount:
			response.BadRequest(w, "Payment amount must be positive")
		default:
			response.InternalServerError(w, "Failed to process payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment processed successfully", result)
}
