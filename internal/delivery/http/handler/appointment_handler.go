package handler

import (
	"encoding/json"
	"net/http"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/middleware"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/usecase"
	"github.com/IshratJahanEkra/BodyId/pkg/response"
	"github.com/IshratJahanEkra/BodyId/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// Create books a new appointment
// @Summary Create appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAppointmentRequest true "Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidConsultationFee:
			response.BadRequest(w, "Doctor has no valid consultation fee")
		case usecase.ErrRecordNotFound:
			response.NotFound(w, "Attached record not found")
		case usecase.ErrHistoryNotFound:
			response.NotFound(w, "Attached medical history not found")
		case usecase.ErrScheduleInPast:
			response.BadRequest(w, "Scheduled time must be in the future")
		case usecase.ErrPatientProfileIncomplete:
			response.PreconditionFailed(w, "Patient profile has no body ID")
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// List returns the caller's appointments
// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	appointments, err := h.appointmentUsecase.List(r.Context(), userID, role)
	if err != nil {
		if err == usecase.ErrRoleCannotListAppointments {
			response.Forbidden(w, "Your role cannot list appointments")
			return
		}
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// Get returns one appointment
// @Summary Get appointment
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), userID, role, id)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParticipant:
			response.Forbidden(w, "You are not a participant of this appointment")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// UpdateStatus moves an appointment through its lifecycle
// @Summary Update appointment status
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Status Request"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), userID, role, id, entity.AppointmentStatus(req.Status))
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParticipant:
			response.Forbidden(w, "You are not a participant of this appointment")
		case usecase.ErrStatusNotAllowedForRole:
			response.Forbidden(w, "Your role cannot set this status")
		case usecase.ErrInvalidStatus:
			response.BadRequest(w, "Invalid appointment status")
		case usecase.ErrInvalidTransition:
			response.Conflict(w, "Status transition not allowed")
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

// AddVisitNotes records the doctor's notes after a visit
// @Summary Add visit notes
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body dto.VisitNotesRequest true "Notes Request"
// @Success 200 {object} response.Response
// @Router /appointments/{id}/notes [put]
func (h *AppointmentHandler) AddVisitNotes(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.VisitNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	appointment, err := h.appointmentUsecase.AddVisitNotes(r.Context(), doctorID, id, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrNotAppointmentParticipant:
			response.Forbidden(w, "You are not the doctor for this appointment")
		case usecase.ErrAppointmentNotConfirmed:
			response.PreconditionFailed(w, "Appointment is not confirmed")
		default:
			response.InternalServerError(w, "Failed to add visit notes")
		}
		return
	}

	response.Success(w, http.StatusOK, "Visit notes saved successfully", appointment)
}
