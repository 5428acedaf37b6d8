package handler

import (
	"context"
	"encoding/json"
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

type RecordHandler struct {
	recordUsecase usecase.RecordUsecase
	validator     *validator.CustomValidator
}

func NewRecordHandler(recordUsecase usecase.RecordUsecase, validator *validator.CustomValidator) *RecordHandler {
	return &RecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

// Upload stores a new medical record file
// @Summary Upload record
// @Tags Records
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Record file"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param tags formData string false "Comma separated tags"
// @Success 201 {object} response.Response
// @Router /records [post]
func (h *RecordHandler) Upload(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	file, fileType, err := readMultipartFile(r, "file")
	if err != nil {
		response.BadRequest(w, "A file is required")
		return
	}

	req := &dto.UploadRecordRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tags:        r.FormValue("tags"),
	}

	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.recordUsecase.Upload(r.Context(), patientID, req, file, fileType)
	if err != nil {
		switch err {
		case usecase.ErrEmptyFile:
			response.BadRequest(w, "Uploaded file is empty")
		case usecase.ErrPatientProfileIncomplete:
			response.PreconditionFailed(w, "Patient profile has no body ID")
		case service.ErrStorageNotConfigured:
			response.UpstreamFailure(w, "File storage is unavailable")
		default:
			response.InternalServerError(w, "Failed to upload record")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Record uploaded successfully", record)
}

// List returns the caller's records
// @Summary List records
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /records [get]
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	records, err := h.recordUsecase.List(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to list records")
		return
	}

	response.Success(w, http.StatusOK, "Records retrieved successfully", records)
}

// Get returns one record if the caller owns it or it was shared with them
// @Summary Get record
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /records/{id} [get]
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid record ID")
		return
	}

	record, err := h.recordUsecase.Get(r.Context(), userID, id)
	if err != nil {
		switch err {
		case usecase.ErrRecordNotFound:
			response.NotFound(w, "Record not found")
		case usecase.ErrRecordAccessDenied:
			response.Forbidden(w, "You do not have access to this record")
		default:
			response.InternalServerError(w, "Failed to get record")
		}
		return
	}

	response.Success(w, http.StatusOK, "Record retrieved successfully", record)
}

// Delete removes a record the caller owns
// @Summary Delete record
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Router /records/{id} [delete]
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid record ID")
		return
	}

	if err := h.recordUsecase.Delete(r.Context(), patientID, id); err != nil {
		switch err {
		case usecase.ErrRecordNotFound:
			response.NotFound(w, "Record not found")
		default:
			response.InternalServerError(w, "Failed to delete record")
		}
		return
	}

	response.Success(w, http.StatusOK, "Record deleted successfully", nil)
}

// Share grants a doctor access to a record
// @Summary Share record
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Param request body dto.ShareRecordRequest true "Share Request"
// @Success 200 {object} response.Response
// @Router /records/{id}/share [post]
func (h *RecordHandler) Share(w http.ResponseWriter, r *http.Request) {
	h.updateShare(w, r, h.recordUsecase.Share, "Record shared successfully")
}

// Unshare revokes a doctor's access to a record
// @Summary Unshare record
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Param request body dto.ShareRecordRequest true "Share Request"
// @Success 200 {object} response.Response
// @Router /records/{id}/share [delete]
func (h *RecordHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	h.updateShare(w, r, h.recordUsecase.Unshare, "Record unshared successfully")
}

type shareFunc func(ctx context.Context, patientID uuid.UUID, recordID uuid.UUID, doctorBMDCID string) (*dto.RecordResponse, error)

func (h *RecordHandler) updateShare(w http.ResponseWriter, r *http.Request, apply shareFunc, message string) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid record ID")
		return
	}

	var req dto.ShareRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := apply(r.Context(), patientID, id, req.DoctorBMDCID)
	if err != nil {
		switch err {
		case usecase.ErrRecordNotFound:
			response.NotFound(w, "Record not found")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to update record sharing")
		}
		return
	}

	response.Success(w, http.StatusOK, message, record)
}
