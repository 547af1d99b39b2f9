package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// ModelClient invokes the external reasoning service and returns the raw
// reply text. Validating the reply is the sanitizer's job, not the client's.
type ModelClient interface {
	Analyze(ctx context.Context, leaseText, location string) (string, error)
}

var (
	ErrModelMisconfigured = errors.New("gemini API key not configured")
	ErrModelUnavailable   = errors.New("gemini request failed")
	ErrModelRefused       = errors.New("gemini returned no usable candidates")
)

const (
	geminiModelName       = "gemini-1.5-flash-latest"
	geminiTemperature     = 0.1
	geminiTopK            = 1
	geminiTopP            = 1
	geminiMaxOutputTokens = 4096
)

// GeminiModelClient implements ModelClient against the Gemini generation API
type GeminiModelClient struct {
	model *genai.GenerativeModel
}

// NewGeminiModelClient configures a generative model for lease analysis.
// A nil client is accepted so the server can start without a credential;
// Analyze then fails with ErrModelMisconfigured and the fallback path runs.
func NewGeminiModelClient(client *genai.Client) *GeminiModelClient {
	if client == nil {
		return &GeminiModelClient{}
	}

	model := client.GenerativeModel(geminiModelName)
	model.SetTemperature(geminiTemperature)
	model.SetTopK(geminiTopK)
	model.SetTopP(geminiTopP)
	model.SetMaxOutputTokens(geminiMaxOutputTokens)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}

	return &GeminiModelClient{model: model}
}

// Analyze sends the lease text to Gemini and returns the raw reply text.
// A single failed call is terminal; no retries are attempted here.
func (c *GeminiModelClient) Analyze(ctx context.Context, leaseText, location string) (string, error) {
	if c.model == nil {
		return "", ErrModelMisconfigured
	}

	prompt := buildAnalysisPrompt(leaseText, location)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: %v", ErrModelRefused, err)
		}
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrModelRefused
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			reply.WriteString(string(text))
		}
	}

	if reply.Len() == 0 {
		return "", ErrModelRefused
	}
	return reply.String(), nil
}

// buildAnalysisPrompt composes the fixed instruction template. The template
// mandates a JSON-only reply mirroring the AnalysisRecord field set.
func buildAnalysisPrompt(leaseText, location string) string {
	if location == "" {
		location = "Not specified"
	}

	return fmt.Sprintf(`You are an expert tenant rights attorney and lease agreement analyzer. Please analyze the following lease agreement thoroughly and provide a comprehensive assessment.

LEASE TEXT TO ANALYZE:
%s

PROPERTY LOCATION: %s

Please provide your analysis in the following JSON format ONLY (no additional text):

{
  "overallScore": [number between 0-100 representing tenant-friendliness],
  "documentAuthenticity": {
    "isLegitimate": [boolean - true if document appears to be a real lease],
    "concerns": ["list any red flags about document authenticity"],
    "confidence": [number 0-100 representing confidence in legitimacy]
  },
  "issues": [
    {
      "severity": "[high|medium|low]",
      "title": "[concise issue title]",
      "description": "[detailed description of the issue]",
      "suggestion": "[specific actionable suggestion for tenant]",
      "legalBasis": "[relevant law or regulation if applicable]",
      "clauseReference": "[specific clause from lease if identifiable]"
    }
  ],
  "recommendations": [
    "[general recommendations for the tenant]"
  ],
  "locationSpecificAdvice": [
    "[advice specific to the provided location's tenant laws]"
  ],
  "riskAssessment": {
    "highRisk": [number of high-risk issues],
    "mediumRisk": [number of medium-risk issues],
    "lowRisk": [number of low-risk issues],
    "overallRiskLevel": "[low|medium|high]"
  },
  "verificationNotes": [
    "[notes about lease verification and any missing standard clauses]"
  ]
}

Focus on:
1. Document authenticity and verification
2. Unfair or illegal clauses
3. Missing tenant protections
4. Security deposit and fee compliance
5. Maintenance and repair responsibilities
6. Termination and renewal terms
7. Privacy rights and entry policies
8. Location-specific tenant law compliance
9. Overall tenant risk assessment`, leaseText, location)
}
