package service

import "leaseguard-backend/models"

// FallbackAnalysis synthesizes a safe, schema-complete analysis for when the
// model path fails. It is pure and deterministic: the end user gets a usable
// record instead of a transport or parsing error.
func FallbackAnalysis() *models.GeminiAnalysis {
	return &models.GeminiAnalysis{
		OverallScore: defaultOverallScore,
		DocumentAuthenticity: models.DocumentAuthenticity{
			IsLegitimate: true,
			Concerns:     []string{"Analysis performed without AI verification due to service unavailability"},
			Confidence:   50,
		},
		Issues: []models.Issue{
			{
				Severity:        models.SeverityMedium,
				Title:           "AI Analysis Unavailable",
				Description:     "Detailed AI analysis could not be performed. Manual review recommended.",
				Suggestion:      "Consider having a legal professional review this lease agreement.",
				LegalBasis:      "General tenant protection advice",
				ClauseReference: "N/A",
			},
		},
		Recommendations: []string{
			"Review local tenant rights laws in your area",
			"Consider getting a legal consultation before signing",
			"Keep detailed records of all communications with your landlord",
		},
		LocationSpecificAdvice: []string{
			"Check local housing authority resources for tenant rights information",
		},
		RiskAssessment: models.RiskAssessment{
			HighRisk:         0,
			MediumRisk:       1,
			LowRisk:          0,
			OverallRiskLevel: models.RiskLevelMedium,
		},
		VerificationNotes: []string{
			"Document verification could not be completed automatically",
		},
	}
}
