package dto

import (
	"github.com/IshratJahanEkra/BodyId/internal/service"
)

// ReportAnalysisResponse wraps the analysis result with a preview of the
// extracted text. FullTextLength lets the client know how much was truncated.
type ReportAnalysisResponse struct {
	ExtractedText  string                  `json:"extracted_text"`
	FullTextLength int                     `json:"full_text_length"`
	Analysis       *service.ReportAnalysis `json:"analysis"`
	ImageURL       string                  `json:"image_url,omitempty"`
	Degraded       bool                    `json:"degraded,omitempty"`
	Warning        string                  `json:"warning,omitempty"`
}

type PrescriptionSafetyResponse struct {
	SafetyReminder string `json:"safety_reminder"`
	ExtractedText  string `json:"extracted_text"`
}
