package service

import (
	"context"
	"testing"
	"time"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"
	"leaseguard-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAnalysis(t *testing.T, repo *repository.AnalysisRepository, userID uuid.UUID, fileName string, at time.Time) *models.AnalysisRecord {
	t.Helper()

	record := &models.AnalysisRecord{
		ID:           uuid.New(),
		UserID:       userID,
		FileName:     fileName,
		Location:     "Unknown",
		AnalysisDate: at,
		OverallScore: 70,
		Issues: []models.Issue{
			{Severity: models.SeverityMedium, Title: "Vague maintenance clause"},
			{Severity: models.SeverityLow, Title: "No pet policy"},
		},
		Recommendations:        []string{"Read before signing"},
		LocationSpecificAdvice: []string{},
		VerificationNotes:      []string{},
		AnalysisVersion:        "gemini-enhanced-v1",
	}
	require.NoError(t, repo.Save(context.Background(), record))
	require.NoError(t, repo.AppendToHistory(context.Background(), userID, record.ID))
	return record
}

func TestListSummariesMostRecentFirst(t *testing.T) {
	repo := repository.NewAnalysisRepository(kvstore.NewMemoryStore())
	svc := NewHistoryService(repo)
	userID := uuid.New()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := seedAnalysis(t, repo, userID, "first.pdf", base)
	second := seedAnalysis(t, repo, userID, "second.pdf", base.Add(time.Hour))
	third := seedAnalysis(t, repo, userID, "third.pdf", base.Add(2*time.Hour))

	summaries, err := svc.ListSummaries(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, third.ID, summaries[0].ID)
	assert.Equal(t, second.ID, summaries[1].ID)
	assert.Equal(t, first.ID, summaries[2].ID)

	// Summaries carry counts, not the issues themselves
	assert.Equal(t, 2, summaries[0].IssueCount)
}

func TestListSummariesEmptyHistory(t *testing.T) {
	repo := repository.NewAnalysisRepository(kvstore.NewMemoryStore())
	svc := NewHistoryService(repo)

	summaries, err := svc.ListSummaries(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NotNil(t, summaries)
}

func TestListSummariesSkipsMissingRecords(t *testing.T) {
	repo := repository.NewAnalysisRepository(kvstore.NewMemoryStore())
	svc := NewHistoryService(repo)
	userID := uuid.New()

	kept := seedAnalysis(t, repo, userID, "kept.pdf", time.Now().UTC())
	// Index entry with no backing record
	require.NoError(t, repo.AppendToHistory(context.Background(), userID, uuid.New()))

	summaries, err := svc.ListSummaries(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, kept.ID, summaries[0].ID)
}

func TestGetDetailOwnership(t *testing.T) {
	repo := repository.NewAnalysisRepository(kvstore.NewMemoryStore())
	svc := NewHistoryService(repo)

	owner := uuid.New()
	record := seedAnalysis(t, repo, owner, "mine.pdf", time.Now().UTC())

	got, err := svc.GetDetail(context.Background(), owner, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Len(t, got.Issues, 2)

	_, err = svc.GetDetail(context.Background(), uuid.New(), record.ID)
	assert.ErrorIs(t, err, ErrAnalysisForbidden)
}

func TestGetDetailNotFound(t *testing.T) {
	repo := repository.NewAnalysisRepository(kvstore.NewMemoryStore())
	svc := NewHistoryService(repo)

	_, err := svc.GetDetail(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}
