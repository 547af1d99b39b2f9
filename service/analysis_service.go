package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"leaseguard-backend/models"
	"leaseguard-backend/repository"

	"github.com/google/uuid"
)

// AnalysisService orchestrates the lease analysis pipeline:
// validate -> model -> sanitize (or fallback) -> persist
type AnalysisService struct {
	modelClient  ModelClient
	analysisRepo *repository.AnalysisRepository
	profileRepo  *repository.ProfileRepository
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithModelClient sets the model client
func WithModelClient(client ModelClient) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.modelClient = client
	}
}

// WithAnalysisRepository sets the analysis repository
func WithAnalysisRepository(repo *repository.AnalysisRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analysisRepo = repo
	}
}

// WithProfileRepository sets the profile repository
func WithProfileRepository(repo *repository.ProfileRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.profileRepo = repo
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ErrLeaseTextTooShort is returned when the lease text is missing or below
// the substantiveness threshold. It is the only failure surfaced to callers
// past authentication.
var ErrLeaseTextTooShort = errors.New("lease text is required and must be substantial for analysis")

const (
	minLeaseTextLength = 50
	defaultFileName    = "lease_document"
	defaultLocation    = "Unknown"
	analysisVersion    = "gemini-enhanced-v1"
)

// RunAnalysisRequest represents a request to analyze a lease
type RunAnalysisRequest struct {
	UserID    uuid.UUID
	LeaseText string
	FileName  string
	Location  string
}

// RunAnalysisResult represents the result of analyzing a lease
type RunAnalysisResult struct {
	Record *models.AnalysisRecord
}

// RunAnalysis validates the request, attempts one model invocation and
// persists a schema-complete record. Any model or sanitize failure is
// absorbed by the fallback analysis; past validation this method fails only
// on persistence errors.
func (s *AnalysisService) RunAnalysis(ctx context.Context, req RunAnalysisRequest) (*RunAnalysisResult, error) {
	if s.modelClient == nil {
		return nil, errors.New("model client not set")
	}
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}
	if s.profileRepo == nil {
		return nil, errors.New("profile repository not set")
	}

	leaseText := strings.TrimSpace(req.LeaseText)
	if utf8.RuneCountInString(leaseText) < minLeaseTextLength {
		return nil, ErrLeaseTextTooShort
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = defaultFileName
	}
	location := req.Location
	if location == "" {
		location = defaultLocation
	}

	log.Printf("Starting Gemini-powered lease analysis for user %s", req.UserID)

	analysis, aiPowered := s.analyzeWithFallback(ctx, leaseText, req.Location)

	record := &models.AnalysisRecord{
		ID:                     uuid.New(),
		UserID:                 req.UserID,
		FileName:               fileName,
		Location:               location,
		AnalysisDate:           time.Now().UTC(),
		OverallScore:           analysis.OverallScore,
		Issues:                 analysis.Issues,
		Recommendations:        analysis.Recommendations,
		LocationSpecificAdvice: analysis.LocationSpecificAdvice,
		DocumentAuthenticity:   analysis.DocumentAuthenticity,
		RiskAssessment:         analysis.RiskAssessment,
		VerificationNotes:      analysis.VerificationNotes,
		AIPowered:              aiPowered,
		AnalysisVersion:        analysisVersion,
	}

	// Three writes, not one transaction: a crash between them leaves an
	// orphaned record or a stale counter, never a partially-valid record.
	if err := s.analysisRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	if err := s.analysisRepo.AppendToHistory(ctx, record.UserID, record.ID); err != nil {
		return nil, err
	}
	if err := s.profileRepo.RecordAnalysis(ctx, record.UserID, record.AnalysisDate); err != nil {
		return nil, err
	}

	log.Printf("Lease analysis completed for user %s with score %d", req.UserID, record.OverallScore)

	return &RunAnalysisResult{Record: record}, nil
}

// analyzeWithFallback runs the single model attempt and sanitizes the reply.
// Both failure sources collapse into the same fallback path.
func (s *AnalysisService) analyzeWithFallback(ctx context.Context, leaseText, location string) (*models.GeminiAnalysis, bool) {
	reply, err := s.modelClient.Analyze(ctx, leaseText, location)
	if err != nil {
		log.Printf("Gemini analysis failed: %v", err)
		return FallbackAnalysis(), false
	}

	analysis, err := SanitizeAnalysis(reply)
	if err != nil {
		log.Printf("Gemini reply rejected by sanitizer: %v", err)
		return FallbackAnalysis(), false
	}

	return analysis, true
}
