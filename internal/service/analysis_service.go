package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IshratJahanEkra/BodyId/config"

	openai "github.com/sashabaranov/go-openai"
)

// ErrAnalysisNotConfigured is returned by the constructor when the OpenAI
// API key is missing.
var ErrAnalysisNotConfigured = errors.New("text analysis service is not configured")

// DefaultDisclaimer is attached to every analysis result.
const DefaultDisclaimer = "This analysis is for informational purposes only and does not constitute medical advice. Always consult with a qualified healthcare professional."

// PossibleCondition is one candidate condition the model identified.
type PossibleCondition struct {
	Condition   string `json:"condition"`
	Likelihood  string `json:"likelihood"`
	Description string `json:"description"`
}

// RecommendedTest is one follow-up test suggestion.
type RecommendedTest struct {
	Test     string `json:"test"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

// OTCMedication is an over-the-counter medication suggestion.
type OTCMedication struct {
	Medication string `json:"medication"`
	Purpose    string `json:"purpose"`
	Dosage     string `json:"dosage,omitempty"`
	Warnings   string `json:"warnings,omitempty"`
}

// ReportAnalysis is the structured result of analyzing a medical report.
// Its content is advisory text only and is never validated beyond being
// parseable JSON.
type ReportAnalysis struct {
	Summary            string              `json:"summary"`
	Findings           []string            `json:"findings"`
	PossibleConditions []PossibleCondition `json:"possibleConditions"`
	RiskFactors        []string            `json:"riskFactors"`
	RecommendedTests   []RecommendedTest   `json:"recommendedTests"`
	OTCMedications     []OTCMedication     `json:"otcMedications"`
	WhenToSeeDoctor    string              `json:"whenToSeeDoctor"`
	GeneralAdvice      string              `json:"generalAdvice"`
	Disclaimer         string              `json:"disclaimer"`
	Timestamp          time.Time           `json:"timestamp"`
}

// Analyzer turns extracted medical text into advisory analysis.
type Analyzer interface {
	AnalyzeMedicalText(ctx context.Context, text string) (*ReportAnalysis, error)
	PrescriptionSafety(ctx context.Context, prescriptionText, historySummary string) (string, error)
}

const analysisSystemPrompt = "You are a helpful AI medical assistant. Provide accurate, evidence-based medical information with appropriate disclaimers. Always emphasize the importance of consulting with qualified healthcare professionals."

const analysisPromptTemplate = `You are an AI medical assistant. Analyze the following medical report or medical history text and provide a comprehensive analysis.

IMPORTANT: This is for informational purposes only and should NOT replace professional medical advice. Always consult with a qualified healthcare provider for diagnosis and treatment.

Medical Report Text:
%TEXT%

Respond with a JSON object containing: "summary" (2-3 sentences), "findings" (list), "possibleConditions" (list of {condition, likelihood: low|medium|high, description}), "riskFactors" (list), "recommendedTests" (list of {test, reason, priority: low|medium|high}), "otcMedications" (list of {medication, purpose, dosage, warnings}), "whenToSeeDoctor", "generalAdvice" and "disclaimer".

Ensure all responses are medically accurate, evidence-based, and include appropriate disclaimers.`

const safetyPromptTemplate = `You are an AI assistant inside a healthcare platform called Body-ID.
Your role is NOT to provide medicine, diagnosis, or treatment.
Your task is to help patients understand their prescriptions and provide general safety reminders based on their medical history.

Medical History / Previous Conditions:
%HISTORY%

Extracted Prescription Text:
%PRESCRIPTION%

Read the medicine names from the prescription and compare them with the patient's known conditions. If a medicine requires special caution for an existing condition, provide a simple, understandable safety reminder. Do not say a medicine is right or wrong, do not suggest alternatives, and always advise confirming the prescription with a doctor.`

type openaiAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyzer builds an Analyzer backed by the OpenAI chat completion API.
func NewOpenAIAnalyzer(cfg config.OpenAIConfig) (Analyzer, error) {
	if cfg.APIKey == "" {
		return nil, ErrAnalysisNotConfigured
	}

	return &openaiAnalyzer{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
	}, nil
}

func (a *openaiAnalyzer) AnalyzeMedicalText(ctx context.Context, text string) (*ReportAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("no text provided for analysis")
	}

	prompt := strings.Replace(analysisPromptTemplate, "%TEXT%", text, 1)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.3,
		MaxTokens:   2000,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from analysis API")
	}

	analysis, err := parseAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return analysis, nil
}

func (a *openaiAnalyzer) PrescriptionSafety(ctx context.Context, prescriptionText, historySummary string) (string, error) {
	prompt := strings.Replace(safetyPromptTemplate, "%HISTORY%", historySummary, 1)
	prompt = strings.Replace(prompt, "%PRESCRIPTION%", prescriptionText, 1)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.3,
		MaxTokens:   500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from analysis API")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// parseAnalysis decodes the model output, recovering the first JSON object
// when the response carries surrounding prose, and fills mandatory fields.
func parseAnalysis(content string) (*ReportAnalysis, error) {
	var analysis ReportAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil, errors.New("invalid JSON response from analysis API")
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &analysis); err != nil {
			return nil, errors.New("invalid JSON response from analysis API")
		}
	}

	if analysis.Summary == "" {
		analysis.Summary = "Analysis completed"
	}
	if analysis.WhenToSeeDoctor == "" {
		analysis.WhenToSeeDoctor = "Consult with a healthcare professional for proper evaluation."
	}
	if analysis.Disclaimer == "" {
		analysis.Disclaimer = DefaultDisclaimer
	}
	analysis.Timestamp = time.Now().UTC()

	return &analysis, nil
}
