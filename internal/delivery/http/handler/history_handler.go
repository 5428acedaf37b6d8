package handler

import (
	"net/http"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/middleware"
	"github.com/IshratJahanEkra/BodyId/internal/service"
	"github.com/IshratJahanEkra/BodyId/internal/usecase"
	"github.com/IshratJahanEkra/BodyId/pkg/response"
	"github.com/IshratJahanEkra/BodyId/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type HistoryHandler struct {
	historyUsecase usecase.HistoryUsecase
	validator      *validator.CustomValidator
}

func NewHistoryHandler(historyUsecase usecase.HistoryUsecase, validator *validator.CustomValidator) *HistoryHandler {
	return &HistoryHandler{
		historyUsecase: historyUsecase,
		validator:      validator,
	}
}

// Upload stores a medical history entry; the file part is optional
// @Summary Upload medical history
// @Tags Histories
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file false "History document"
// @Param description formData string false "Description"
// @Success 201 {object} response.Response
// @Router /medical-history [post]
func (h *HistoryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	file, _, err := readMultipartFile(r, "file")
	if err != nil && err != errNoFile {
		response.BadRequest(w, "Failed to read uploaded file")
		return
	}

	req := &dto.UploadHistoryRequest{
		Description: r.FormValue("description"),
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	history, err := h.historyUsecase.Upload(r.Context(), patientID, req, file)
	if err != nil {
		switch err {
		case usecase.ErrEmptyHistory:
			response.BadRequest(w, "History needs a description or a file")
		case usecase.ErrPatientProfileIncomplete:
			response.PreconditionFailed(w, "Patient profile has no body ID")
		case service.ErrStorageNotConfigured:
			response.UpstreamFailure(w, "File storage is unavailable")
		default:
			response.InternalServerError(w, "Failed to upload medical history")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Medical history uploaded successfully", history)
}

// List returns the caller's medical history entries
// @Summary List medical history
// @Tags Histories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /medical-history [get]
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	histories, err := h.historyUsecase.List(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to list medical histories")
		return
	}

	response.Success(w, http.StatusOK, "Medical histories retrieved successfully", histories)
}

// Get returns one of the caller's history entries
// @Summary Get medical history
// @Tags Histories
// @Produce json
// @Security BearerAuth
// @Param id path string true "History ID"
// @Success 200 {object} response.Response
// @Router /medical-history/{id} [get]
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid history ID")
		return
	}

	history, err := h.historyUsecase.Get(r.Context(), patientID, id)
	if err != nil {
		switch err {
		case usecase.ErrHistoryNotFound:
			response.NotFound(w, "Medical history not found")
		default:
			response.InternalServerError(w, "Failed to get medical history")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical history retrieved successfully", history)
}
