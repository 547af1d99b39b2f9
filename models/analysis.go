package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies a single lease issue
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// RiskLevel represents the overall risk level of a lease
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Issue represents a single problem identified in a lease agreement
type Issue struct {
	Severity        Severity `json:"severity"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Suggestion      string   `json:"suggestion"`
	LegalBasis      string   `json:"legalBasis,omitempty"`
	ClauseReference string   `json:"clauseReference,omitempty"`
}

// DocumentAuthenticity captures the verification verdict on a lease document
type DocumentAuthenticity struct {
	IsLegitimate bool     `json:"isLegitimate"`
	Concerns     []string `json:"concerns"`
	Confidence   int      `json:"confidence"`
}

// RiskAssessment tallies issues by severity and summarizes overall risk
type RiskAssessment struct {
	HighRisk         int       `json:"highRisk"`
	MediumRisk       int       `json:"mediumRisk"`
	LowRisk          int       `json:"lowRisk"`
	OverallRiskLevel RiskLevel `json:"overallRiskLevel"`
}

// GeminiAnalysis is the sanitized body of a model reply, before the
// orchestrator attaches identity and ownership metadata
type GeminiAnalysis struct {
	OverallScore           int                  `json:"overallScore"`
	DocumentAuthenticity   DocumentAuthenticity `json:"documentAuthenticity"`
	Issues                 []Issue              `json:"issues"`
	Recommendations        []string             `json:"recommendations"`
	LocationSpecificAdvice []string             `json:"locationSpecificAdvice"`
	RiskAssessment         RiskAssessment       `json:"riskAssessment"`
	VerificationNotes      []string             `json:"verificationNotes"`
}

// AnalysisRecord is the canonical persisted result of analyzing one lease
// document. Created once by the orchestrator and never mutated afterward.
type AnalysisRecord struct {
	ID                     uuid.UUID            `json:"id"`
	UserID                 uuid.UUID            `json:"userId"`
	FileName               string               `json:"fileName"`
	Location               string               `json:"location"`
	AnalysisDate           time.Time            `json:"analysisDate"`
	OverallScore           int                  `json:"overallScore"`
	Issues                 []Issue              `json:"issues"`
	Recommendations        []string             `json:"recommendations"`
	LocationSpecificAdvice []string             `json:"locationSpecificAdvice"`
	DocumentAuthenticity   DocumentAuthenticity `json:"documentAuthenticity"`
	RiskAssessment         RiskAssessment       `json:"riskAssessment"`
	VerificationNotes      []string             `json:"verificationNotes"`
	AIPowered              bool                 `json:"aiPowered"`
	AnalysisVersion        string               `json:"analysisVersion"`
}

// ReportArtifact points at the archived PDF for an analysis, stored under
// report_artifact:{analysisId}. Reports are rendered on demand; the artifact
// lets later downloads serve the archived copy instead of re-rendering.
type ReportArtifact struct {
	AnalysisID  uuid.UUID `json:"analysisId"`
	StoragePath string    `json:"storagePath"`
	FileName    string    `json:"fileName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnalysisSummary is the lightweight listing shape for history responses.
// It deliberately carries only the issue count, never the issues themselves.
type AnalysisSummary struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"fileName"`
	Location     string    `json:"location"`
	AnalysisDate time.Time `json:"analysisDate"`
	OverallScore int       `json:"overallScore"`
	IssueCount   int       `json:"issueCount"`
}

// Summary projects a record into its listing shape
func (r *AnalysisRecord) Summary() AnalysisSummary {
	return AnalysisSummary{
		ID:           r.ID,
		FileName:     r.FileName,
		Location:     r.Location,
		AnalysisDate: r.AnalysisDate,
		OverallScore: r.OverallScore,
		IssueCount:   len(r.Issues),
	}
}
