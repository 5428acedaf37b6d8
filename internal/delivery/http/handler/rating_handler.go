package handler

import (
	"encoding/json"
	"net/http"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/middleware"
	"github.com/IshratJahanEkra/BodyId/internal/usecase"
	"github.com/IshratJahanEkra/BodyId/pkg/response"
	"github.com/IshratJahanEkra/BodyId/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type RatingHandler struct {
	ratingUsecase usecase.RatingUsecase
	validator     *validator.CustomValidator
}

func NewRatingHandler(ratingUsecase usecase.RatingUsecase, validator *validator.CustomValidator) *RatingHandler {
	return &RatingHandler{
		ratingUsecase: ratingUsecase,
		validator:     validator,
	}
}

// Submit records a rating for a completed appointment
// @Summary Submit rating
// @Tags Ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitRatingRequest true "Rating Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 412 {object} response.Response
// @Router /ratings [post]
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req dto.SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rating, err := h.ratingUsecase.Submit(r.Context(), patientID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidStars:
			response.BadRequest(w, "Stars must be between 0 and 5")
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentNotRateable:
			response.PreconditionFailed(w, "Appointment cannot be rated in its current status")
		case usecase.ErrAlreadyRated:
			response.Conflict(w, "Appointment has already been rated")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to submit rating")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Rating submitted successfully", rating)
}

// ListForDoctor returns a doctor's ratings, newest first
// @Summary List doctor ratings
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Param doctorId path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Router /ratings/{doctorId} [get]
func (h *RatingHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	ratings, err := h.ratingUsecase.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to list ratings")
		return
	}

	response.Success(w, http.StatusOK, "Ratings retrieved successfully", ratings)
}
