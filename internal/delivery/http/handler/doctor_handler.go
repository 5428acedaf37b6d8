package handler

import (
	"net/http"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/middleware"
	"github.com/IshratJahanEkra/BodyId/internal/usecase"
	"github.com/IshratJahanEkra/BodyId/pkg/response"

	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase) *DoctorHandler {
	return &DoctorHandler{doctorUsecase: doctorUsecase}
}

// GetPatientRecords looks up a patient by body ID for a treating doctor
// @Summary Get patient records by body ID
// @Tags Doctor
// @Produce json
// @Security BearerAuth
// @Param bodyId path string true "Patient body ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctor/patients/{bodyId}/records [get]
func (h *DoctorHandler) GetPatientRecords(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	bodyID := mux.Vars(r)["bodyId"]

	result, err := h.doctorUsecase.GetPatientRecords(r.Context(), doctorID, bodyID)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "No patient found for this body ID")
		case usecase.ErrNoSharedTreatment:
			response.Forbidden(w, "You have no appointment with this patient")
		default:
			response.InternalServerError(w, "Failed to get patient records")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient records retrieved successfully", result)
}

// ListSharedRecords lists records shared with the requesting doctor
// @Summary List shared records
// @Tags Doctor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /doctor/shared-records [get]
func (h *DoctorHandler) ListSharedRecords(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	records, err := h.doctorUsecase.ListSharedRecords(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to list shared records")
		return
	}

	response.Success(w, http.StatusOK, "Shared records retrieved successfully", records)
}
