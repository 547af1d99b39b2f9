package service

import (
	"encoding/json"
	"testing"

	"leaseguard-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeAnalysisStripsCodeFences(t *testing.T) {
	reply := "```json\n{\"overallScore\": 62}\n```"

	analysis, err := SanitizeAnalysis(reply)
	require.NoError(t, err)
	assert.Equal(t, 62, analysis.OverallScore)
}

func TestSanitizeAnalysisMalformedReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain prose", "I am sorry, I cannot analyze this lease."},
		{"truncated json", `{"overallScore": 62, "issues": [`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeAnalysis(tt.reply)
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestSanitizeAnalysisScoreClamping(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"above range", `{"overallScore": 150}`, 100},
		{"below range", `{"overallScore": -5}`, 0},
		{"in range", `{"overallScore": 42}`, 42},
		{"missing defaults", `{}`, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := SanitizeAnalysis(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, analysis.OverallScore)
		})
	}
}

func TestSanitizeAnalysisConservativeDefaults(t *testing.T) {
	analysis, err := SanitizeAnalysis(`{}`)
	require.NoError(t, err)

	assert.True(t, analysis.DocumentAuthenticity.IsLegitimate)
	assert.Equal(t, 85, analysis.DocumentAuthenticity.Confidence)
	assert.Empty(t, analysis.DocumentAuthenticity.Concerns)
	assert.Equal(t, models.RiskLevelLow, analysis.RiskAssessment.OverallRiskLevel)
	assert.Zero(t, analysis.RiskAssessment.HighRisk)

	// Missing collections become empty sequences, never nil
	assert.NotNil(t, analysis.Issues)
	assert.NotNil(t, analysis.Recommendations)
	assert.NotNil(t, analysis.LocationSpecificAdvice)
	assert.NotNil(t, analysis.VerificationNotes)
}

func TestSanitizeAnalysisNormalizesEnums(t *testing.T) {
	reply := `{
		"issues": [
			{"severity": "CRITICAL", "title": "a"},
			{"severity": "High", "title": "b"},
			{"severity": "low", "title": "c"}
		],
		"riskAssessment": {"highRisk": 1, "mediumRisk": -2, "lowRisk": 0, "overallRiskLevel": "severe"}
	}`

	analysis, err := SanitizeAnalysis(reply)
	require.NoError(t, err)

	require.Len(t, analysis.Issues, 3)
	assert.Equal(t, models.SeverityMedium, analysis.Issues[0].Severity)
	assert.Equal(t, models.SeverityHigh, analysis.Issues[1].Severity)
	assert.Equal(t, models.SeverityLow, analysis.Issues[2].Severity)

	assert.Equal(t, models.RiskLevelLow, analysis.RiskAssessment.OverallRiskLevel)
	assert.Equal(t, 0, analysis.RiskAssessment.MediumRisk)
	assert.Equal(t, 1, analysis.RiskAssessment.HighRisk)
}

func TestSanitizeAnalysisFallbackRoundTrip(t *testing.T) {
	fallback := FallbackAnalysis()

	data, err := json.Marshal(fallback)
	require.NoError(t, err)

	sanitized, err := SanitizeAnalysis(string(data))
	require.NoError(t, err)

	assert.Equal(t, fallback, sanitized)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}
