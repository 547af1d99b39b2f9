package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"
	"leaseguard-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModelClient returns a canned reply or error and counts invocations
type stubModelClient struct {
	reply string
	err   error
	calls int
}

func (s *stubModelClient) Analyze(ctx context.Context, leaseText, location string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

const validModelReply = `{
	"overallScore": 82,
	"documentAuthenticity": {"isLegitimate": true, "concerns": [], "confidence": 90},
	"issues": [
		{"severity": "high", "title": "Excessive late fee", "description": "Late fee exceeds statutory cap", "suggestion": "Negotiate the fee down"}
	],
	"recommendations": ["Document the unit condition at move-in"],
	"locationSpecificAdvice": ["Check local rent control ordinances"],
	"riskAssessment": {"highRisk": 1, "mediumRisk": 0, "lowRisk": 0, "overallRiskLevel": "high"},
	"verificationNotes": ["Standard residential lease format"]
}`

func newTestPipeline(t *testing.T, client ModelClient) (*AnalysisService, *repository.AnalysisRepository, *repository.ProfileRepository) {
	t.Helper()

	store := kvstore.NewMemoryStore()
	analysisRepo := repository.NewAnalysisRepository(store)
	profileRepo := repository.NewProfileRepository(store)

	svc := NewAnalysisService(
		WithModelClient(client),
		WithAnalysisRepository(analysisRepo),
		WithProfileRepository(profileRepo),
	)
	return svc, analysisRepo, profileRepo
}

func seedProfile(t *testing.T, profileRepo *repository.ProfileRepository) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	err := profileRepo.Save(context.Background(), &models.UserProfile{
		ID:           userID,
		Name:         "Test User",
		Email:        "test@example.com",
		CreatedAt:    time.Now().UTC(),
		Subscription: "free",
	})
	require.NoError(t, err)
	return userID
}

func longLeaseText() string {
	return strings.Repeat("The tenant shall pay rent monthly. ", 5)
}

func TestRunAnalysisRejectsShortLeaseText(t *testing.T) {
	client := &stubModelClient{reply: validModelReply}
	svc, _, profileRepo := newTestPipeline(t, client)
	userID := seedProfile(t, profileRepo)

	tests := []struct {
		name      string
		leaseText string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"below threshold", "short lease"},
		{"padded below threshold", "   short lease   " + strings.Repeat(" ", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RunAnalysis(context.Background(), RunAnalysisRequest{
				UserID:    userID,
				LeaseText: tt.leaseText,
			})
			assert.ErrorIs(t, err, ErrLeaseTextTooShort)
		})
	}

	// Validation failures never reach the model
	assert.Zero(t, client.calls)
}

func TestRunAnalysisSuccess(t *testing.T) {
	client := &stubModelClient{reply: validModelReply}
	svc, analysisRepo, profileRepo := newTestPipeline(t, client)
	userID := seedProfile(t, profileRepo)

	result, err := svc.RunAnalysis(context.Background(), RunAnalysisRequest{
		UserID:    userID,
		LeaseText: longLeaseText(),
		FileName:  "apartment-lease.pdf",
		Location:  "Austin, TX",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Record)

	record := result.Record
	assert.Equal(t, 1, client.calls)
	assert.True(t, record.AIPowered)
	assert.Equal(t, 82, record.OverallScore)
	assert.Equal(t, "apartment-lease.pdf", record.FileName)
	assert.Equal(t, "Austin, TX", record.Location)
	assert.Equal(t, "gemini-enhanced-v1", record.AnalysisVersion)
	require.Len(t, record.Issues, 1)
	assert.Equal(t, models.SeverityHigh, record.Issues[0].Severity)

	// Record is retrievable and indexed
	stored, err := analysisRepo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, stored.ID)

	ids, err := analysisRepo.HistoryIDs(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{record.ID}, ids)

	// Profile counter advanced
	profile, err := profileRepo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.AnalysisCount)
	require.NotNil(t, profile.LastAnalysis)
	assert.True(t, profile.LastAnalysis.Equal(record.AnalysisDate))
}

func TestRunAnalysisDefaultsFileNameAndLocation(t *testing.T) {
	client := &stubModelClient{reply: validModelReply}
	svc, _, profileRepo := newTestPipeline(t, client)
	userID := seedProfile(t, profileRepo)

	result, err := svc.RunAnalysis(context.Background(), RunAnalysisRequest{
		UserID:    userID,
		LeaseText: longLeaseText(),
	})
	require.NoError(t, err)
	assert.Equal(t, "lease_document", result.Record.FileName)
	assert.Equal(t, "Unknown", result.Record.Location)
}

func TestRunAnalysisFallsBackOnModelError(t *testing.T) {
	client := &stubModelClient{err: errors.New("model endpoint unreachable")}
	svc, _, profileRepo := newTestPipeline(t, client)
	userID := seedProfile(t, profileRepo)

	result, err := svc.RunAnalysis(context.Background(), RunAnalysisRequest{
		UserID:    userID,
		LeaseText: longLeaseText(),
	})
	require.NoError(t, err)

	record := result.Record
	assert.False(t, record.AIPowered)
	assert.Equal(t, 75, record.OverallScore)
	require.Len(t, record.Issues, 1)
	assert.Equal(t, "AI Analysis Unavailable", record.Issues[0].Title)
	assert.Equal(t, models.RiskLevelMedium, record.RiskAssessment.OverallRiskLevel)
}

func TestRunAnalysisFallsBackOnMalformedReply(t *testing.T) {
	client := &stubModelClient{reply: "I cannot produce JSON for this document."}
	svc, _, profileRepo := newTestPipeline(t, client)
	userID := seedProfile(t, profileRepo)

	result, err := svc.RunAnalysis(context.Background(), RunAnalysisRequest{
		UserID:    userID,
		LeaseText: longLeaseText(),
	})
	require.NoError(t, err)

	assert.False(t, result.Record.AIPowered)
	assert.Equal(t, 75, result.Record.OverallScore)
}

func TestRunAnalysisAccumulatesHistory(t *testing.T) {
	client := &stubModelClient{reply: validModelReply}
	svc, analysisRepo, profileRepo := newTestPipeline(t, client)
	userID := seedProfile(t, profileRepo)

	first, err := svc.RunAnalysis(context.Background(), RunAnalysisRequest{
		UserID:    userID,
		LeaseText: longLeaseText(),
		FileName:  "first.pdf",
	})
	require.NoError(t, err)

	second, err := svc.RunAnalysis(context.Background(), RunAnalysisRequest{
		UserID:    userID,
		LeaseText: longLeaseText(),
		FileName:  "second.pdf",
	})
	require.NoError(t, err)

	ids, err := analysisRepo.HistoryIDs(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.Record.ID, second.Record.ID}, ids)

	profile, err := profileRepo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.AnalysisCount)
}
