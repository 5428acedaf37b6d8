package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/dto"
	"github.com/IshratJahanEkra/BodyId/internal/domain/entity"
	"github.com/IshratJahanEkra/BodyId/internal/domain/repository"
	"github.com/IshratJahanEkra/BodyId/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUnsupportedFileType = errors.New("only JPEG, PNG and PDF files are supported")
	ErrFileTooLarge        = errors.New("file exceeds the 10MB limit")
	ErrInsufficientText    = errors.New("could not extract enough readable text from the file")
)

const (
	maxAnalysisFileSize = 10 << 20
	minExtractedChars   = 10
	extractPreviewChars = 1000
)

var supportedAnalysisTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type AnalysisUsecase interface {
	// AnalyzeReport runs OCR over an uploaded report and returns an advisory
	// analysis. When the analyzer is unavailable the response degrades to a
	// keyword scan instead of failing.
	AnalyzeReport(ctx context.Context, patientID uuid.UUID, file []byte, contentType string) (*dto.ReportAnalysisResponse, error)

	// CheckPrescriptionSafety reads a prescription image and cross-checks it
	// against the patient's stored records and histories.
	CheckPrescriptionSafety(ctx context.Context, patientID uuid.UUID, file []byte, contentType string) (*dto.PrescriptionSafetyResponse, error)
}

type analysisUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	recordRepo   repository.RecordRepository
	historyRepo  repository.HistoryRepository
	extractor    service.TextExtractor
	analyzer     service.Analyzer
	storage      service.FileStorage
	auditService service.AuditService
}

func NewAnalysisUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	recordRepo repository.RecordRepository,
	historyRepo repository.HistoryRepository,
	extractor service.TextExtractor,
	analyzer service.Analyzer,
	storage service.FileStorage,
	auditService service.AuditService,
) AnalysisUsecase {
	return &analysisUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		recordRepo:   recordRepo,
		historyRepo:  historyRepo,
		extractor:    extractor,
		analyzer:     analyzer,
		storage:      storage,
		auditService: auditService,
	}
}

func (u *analysisUsecase) AnalyzeReport(ctx context.Context, patientID uuid.UUID, file []byte, contentType string) (*dto.ReportAnalysisResponse, error) {
	text, err := u.extractText(ctx, file, contentType)
	if err != nil {
		return nil, err
	}

	imageURL := u.archive(ctx, patientID, file, "reports")

	response := &dto.ReportAnalysisResponse{
		ExtractedText:  preview(text),
		FullTextLength: len(text),
		ImageURL:       imageURL,
	}

	if u.analyzer != nil {
		analysis, err := u.analyzer.AnalyzeMedicalText(ctx, text)
		if err == nil {
			response.Analysis = analysis
			u.auditReport(ctx, patientID, false)
			return response, nil
		}
		u.log.Warnf("Analyzer failed, falling back to keyword scan: %+v", err)
	}

	response.Analysis = fallbackAnalysis(text)
	response.Degraded = true
	response.Warning = "AI analysis was unavailable; a basic keyword scan was used instead."
	u.auditReport(ctx, patientID, true)

	return response, nil
}

func (u *analysisUsecase) CheckPrescriptionSafety(ctx context.Context, patientID uuid.UUID, file []byte, contentType string) (*dto.PrescriptionSafetyResponse, error) {
	text, err := u.extractText(ctx, file, contentType)
	if err != nil {
		return nil, err
	}

	historySummary := u.buildHistorySummary(ctx, patientID)

	reminder := ""
	if u.analyzer != nil {
		reminder, err = u.analyzer.PrescriptionSafety(ctx, text, historySummary)
		if err != nil {
			u.log.Warnf("Prescription safety check failed: %+v", err)
			reminder = ""
		}
	}
	if reminder == "" {
		reminder = "Always confirm your prescription with your doctor or pharmacist before taking any medication."
	}

	u.auditService.Log(u.db.WithContext(ctx), &patientID, entity.AuditActionPrescriptionCheck, nil)

	return &dto.PrescriptionSafetyResponse{
		SafetyReminder: reminder,
		ExtractedText:  preview(text),
	}, nil
}

func (u *analysisUsecase) extractText(ctx context.Context, file []byte, contentType string) (string, error) {
	if len(file) == 0 {
		return "", ErrEmptyFile
	}
	if len(file) > maxAnalysisFileSize {
		return "", ErrFileTooLarge
	}
	if !supportedAnalysisTypes[contentType] {
		return "", ErrUnsupportedFileType
	}
	if u.extractor == nil {
		return "", service.ErrOCRNotConfigured
	}

	text, err := u.extractor.ExtractText(ctx, file)
	if err != nil {
		if errors.Is(err, service.ErrNoTextFound) {
			return "", ErrInsufficientText
		}
		u.log.Warnf("OCR extraction failed: %+v", err)
		return "", err
	}

	if len(strings.TrimSpace(text)) < minExtractedChars {
		return "", ErrInsufficientText
	}

	return text, nil
}

// archive stores a copy of the analyzed file. Archival is best-effort: any
// failure is logged and the analysis proceeds without an image URL.
func (u *analysisUsecase) archive(ctx context.Context, patientID uuid.UUID, file []byte, kind string) string {
	if u.storage == nil {
		return ""
	}

	folder := fmt.Sprintf("bodyid/%s", kind)
	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err == nil && patient != nil && patient.BodyID != nil {
		folder = fmt.Sprintf("bodyid/%s/%s", *patient.BodyID, kind)
	}

	uploaded, err := u.storage.Upload(ctx, file, folder)
	if err != nil {
		u.log.Warnf("Failed to archive analyzed file: %+v", err)
		return ""
	}

	return uploaded.URL
}

func (u *analysisUsecase) buildHistorySummary(ctx context.Context, patientID uuid.UUID) string {
	var parts []string

	histories, err := u.historyRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to load histories for safety check: %+v", err)
	}
	for _, history := range histories {
		if history.Description != "" {
			parts = append(parts, history.Description)
		}
	}

	records, err := u.recordRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to load records for safety check: %+v", err)
	}
	for _, record := range records {
		entry := record.Title
		if record.Description != "" {
			entry = entry + ": " + record.Description
		}
		if len(record.Tags) > 0 {
			entry = entry + " [" + strings.Join(record.Tags, ", ") + "]"
		}
		if entry != "" {
			parts = append(parts, entry)
		}
	}

	if len(parts) == 0 {
		return "No known medical history on file."
	}
	return strings.Join(parts, "\n")
}

func (u *analysisUsecase) auditReport(ctx context.Context, patientID uuid.UUID, degraded bool) {
	u.auditService.Log(u.db.WithContext(ctx), &patientID, entity.AuditActionReportAnalyze, entity.JSON{
		"degraded": degraded,
	})
}

func preview(text string) string {
	if len(text) <= extractPreviewChars {
		return text
	}
	return text[:extractPreviewChars]
}

// keywordHints drives the degraded analysis path: a crude scan for terms
// that warrant a mention when the language model is unreachable.
var keywordHints = map[string]string{
	"diabetes":     "The text mentions diabetes. Blood sugar related findings should be reviewed with your doctor.",
	"glucose":      "Glucose values appear in the report. Compare them against your lab's reference range.",
	"cholesterol":  "Cholesterol is mentioned. Lipid panel results are best interpreted alongside your full history.",
	"pressure":     "Blood pressure readings appear in the text. Persistent high readings warrant a follow-up.",
	"hemoglobin":   "Hemoglobin values appear in the report. Abnormal values can indicate anemia or other conditions.",
	"creatinine":   "Creatinine is mentioned, which relates to kidney function.",
	"thyroid":      "Thyroid related values appear in the report.",
	"x-ray":        "The document references imaging results. These need professional interpretation.",
	"prescription": "The text looks like a prescription. Verify dosage instructions with your pharmacist.",
}

func fallbackAnalysis(text string) *service.ReportAnalysis {
	lower := strings.ToLower(text)

	var findings []string
	for keyword, hint := range keywordHints {
		if strings.Contains(lower, keyword) {
			findings = append(findings, hint)
		}
	}
	if len(findings) == 0 {
		findings = []string{"No recognized medical terms were found in the extracted text."}
	}

	return &service.ReportAnalysis{
		Summary:         "Automated analysis was unavailable. The findings below come from a basic keyword scan of the extracted text.",
		Findings:        findings,
		WhenToSeeDoctor: "Share this report with a qualified healthcare professional for a proper interpretation.",
		GeneralAdvice:   "Keyword scans cannot assess severity or context. Do not act on this output alone.",
		Disclaimer:      service.DefaultDisclaimer,
		Timestamp:       time.Now(),
	}
}
