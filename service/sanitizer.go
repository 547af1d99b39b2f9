package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"leaseguard-backend/models"
)

// ErrMalformedReply indicates the model reply could not be parsed as JSON
var ErrMalformedReply = errors.New("malformed analysis reply")

const (
	defaultOverallScore = 75
	defaultConfidence   = 85
)

// rawAnalysis mirrors the reply shape with optional fields left as pointers
// so missing data can be told apart from zero values
type rawAnalysis struct {
	OverallScore           *float64         `json:"overallScore"`
	DocumentAuthenticity   *rawAuthenticity `json:"documentAuthenticity"`
	Issues                 []rawIssue       `json:"issues"`
	Recommendations        []string         `json:"recommendations"`
	LocationSpecificAdvice []string         `json:"locationSpecificAdvice"`
	RiskAssessment         *rawRisk         `json:"riskAssessment"`
	VerificationNotes      []string         `json:"verificationNotes"`
}

type rawAuthenticity struct {
	IsLegitimate *bool    `json:"isLegitimate"`
	Concerns     []string `json:"concerns"`
	Confidence   *float64 `json:"confidence"`
}

type rawIssue struct {
	Severity        string `json:"severity"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Suggestion      string `json:"suggestion"`
	LegalBasis      string `json:"legalBasis"`
	ClauseReference string `json:"clauseReference"`
}

type rawRisk struct {
	HighRisk         *float64 `json:"highRisk"`
	MediumRisk       *float64 `json:"mediumRisk"`
	LowRisk          *float64 `json:"lowRisk"`
	OverallRiskLevel string   `json:"overallRiskLevel"`
}

// SanitizeAnalysis coerces an untrusted model reply into a schema-complete
// analysis. The chain is strip fences -> parse -> coerce; only an unparsable
// reply is an error. Missing or out-of-range data is repaired, never
// rejected, so a parsed reply always yields a valid analysis.
func SanitizeAnalysis(reply string) (*models.GeminiAnalysis, error) {
	cleaned := stripCodeFences(reply)

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	return coerceAnalysis(&raw), nil
}

// stripCodeFences removes markdown code-fence wrapping around the JSON
// payload, if present
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// coerceAnalysis repairs a parsed reply into the canonical shape
func coerceAnalysis(raw *rawAnalysis) *models.GeminiAnalysis {
	analysis := &models.GeminiAnalysis{
		OverallScore:           defaultOverallScore,
		Issues:                 []models.Issue{},
		Recommendations:        []string{},
		LocationSpecificAdvice: []string{},
		VerificationNotes:      []string{},
		DocumentAuthenticity: models.DocumentAuthenticity{
			IsLegitimate: true,
			Concerns:     []string{},
			Confidence:   defaultConfidence,
		},
		RiskAssessment: models.RiskAssessment{
			OverallRiskLevel: models.RiskLevelLow,
		},
	}

	if raw.OverallScore != nil {
		analysis.OverallScore = clampScore(int(*raw.OverallScore))
	}

	for _, issue := range raw.Issues {
		analysis.Issues = append(analysis.Issues, models.Issue{
			Severity:        normalizeSeverity(issue.Severity),
			Title:           issue.Title,
			Description:     issue.Description,
			Suggestion:      issue.Suggestion,
			LegalBasis:      issue.LegalBasis,
			ClauseReference: issue.ClauseReference,
		})
	}

	if raw.Recommendations != nil {
		analysis.Recommendations = raw.Recommendations
	}
	if raw.LocationSpecificAdvice != nil {
		analysis.LocationSpecificAdvice = raw.LocationSpecificAdvice
	}
	if raw.VerificationNotes != nil {
		analysis.VerificationNotes = raw.VerificationNotes
	}

	if raw.DocumentAuthenticity != nil {
		auth := raw.DocumentAuthenticity
		if auth.IsLegitimate != nil {
			analysis.DocumentAuthenticity.IsLegitimate = *auth.IsLegitimate
		}
		if auth.Concerns != nil {
			analysis.DocumentAuthenticity.Concerns = auth.Concerns
		}
		if auth.Confidence != nil {
			analysis.DocumentAuthenticity.Confidence = clampScore(int(*auth.Confidence))
		}
	}

	if raw.RiskAssessment != nil {
		risk := raw.RiskAssessment
		analysis.RiskAssessment.HighRisk = nonNegative(risk.HighRisk)
		analysis.RiskAssessment.MediumRisk = nonNegative(risk.MediumRisk)
		analysis.RiskAssessment.LowRisk = nonNegative(risk.LowRisk)
		analysis.RiskAssessment.OverallRiskLevel = normalizeRiskLevel(risk.OverallRiskLevel)
	}

	return analysis
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func nonNegative(v *float64) int {
	if v == nil || *v < 0 {
		return 0
	}
	return int(*v)
}

// normalizeSeverity maps unknown severity values to medium rather than
// rejecting the reply
func normalizeSeverity(s string) models.Severity {
	switch models.Severity(strings.ToLower(strings.TrimSpace(s))) {
	case models.SeverityHigh:
		return models.SeverityHigh
	case models.SeverityLow:
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}

// normalizeRiskLevel maps unknown risk levels to low
func normalizeRiskLevel(s string) models.RiskLevel {
	switch models.RiskLevel(strings.ToLower(strings.TrimSpace(s))) {
	case models.RiskLevelHigh:
		return models.RiskLevelHigh
	case models.RiskLevelMedium:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}
