package handler

import (
	"net/http"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/middleware"
	"github.com/IshratJahanEkra/BodyId/internal/service"
	"github.com/IshratJahanEkra/BodyId/internal/usecase"
	"github.com/IshratJahanEkra/BodyId/pkg/response"
)

type AnalysisHandler struct {
	analysisUsecase usecase.AnalysisUsecase
}

func NewAnalysisHandler(analysisUsecase usecase.AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{analysisUsecase: analysisUsecase}
}

// AnalyzeReport OCRs an uploaded report and returns an advisory analysis
// @Summary Analyze medical report
// @Tags Analysis
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Report image or PDF"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /analysis/report [post]
func (h *AnalysisHandler) AnalyzeReport(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.analysisUsecase.AnalyzeReport(r.Context(), patientID, file, fileType)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Report analyzed successfully", result)
}

// CheckPrescriptionSafety OCRs a prescription and returns a safety reminder
// @Summary Check prescription safety
// @Tags Analysis
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Prescription image"
// @Success 200 {object} response.Response
// @Router /analysis/prescription-safety [post]
func (h *AnalysisHandler) CheckPrescriptionSafety(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.analysisUsecase.CheckPrescriptionSafety(r.Context(), patientID, file, fileType)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Prescription checked successfully", result)
}

func (h *AnalysisHandler) writeAnalysisError(w http.ResponseWriter, err error) {
	switch err {
	case usecase.ErrEmptyFile:
		response.BadRequest(w, "Uploaded file is empty")
	case usecase.ErrFileTooLarge:
		response.BadRequest(w, "File exceeds the 10MB limit")
	case usecase.ErrUnsupportedFileType:
		response.BadRequest(w, "Only JPEG, PNG and PDF files are supported")
	case usecase.ErrInsufficientText:
		response.BadRequest(w, "Could not extract enough readable text from the file")
	case service.ErrOCRNotConfigured:
		response.UpstreamFailure(w, "Text extraction is unavailable")
	default:
		response.UpstreamFailure(w, "Failed to analyze the file")
	}
}
