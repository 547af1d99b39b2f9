package service

import (
	"context"
	"errors"
	"log"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"
	"leaseguard-backend/repository"

	"github.com/google/uuid"
)

var (
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrAnalysisForbidden = errors.New("access denied to this analysis")
)

// HistoryService reads back persisted analyses for listing and detail views
type HistoryService struct {
	analysisRepo *repository.AnalysisRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(analysisRepo *repository.AnalysisRepository) *HistoryService {
	return &HistoryService{analysisRepo: analysisRepo}
}

// ListSummaries returns the user's analyses as lightweight summaries,
// most recent first. Records referenced by the index but missing from the
// store are skipped.
func (s *HistoryService) ListSummaries(ctx context.Context, userID uuid.UUID) ([]models.AnalysisSummary, error) {
	ids, err := s.analysisRepo.HistoryIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.AnalysisSummary, 0, len(ids))
	for _, id := range ids {
		record, err := s.analysisRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, kvstore.ErrKeyNotFound) {
				log.Printf("Skipping missing analysis %s in history for user %s", id, userID)
				continue
			}
			return nil, err
		}
		summaries = append(summaries, record.Summary())
	}

	// Index is append-only, so reversing yields most-recent-first
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}

	return summaries, nil
}

// GetDetail returns a full analysis record. The ownership check runs before
// any field of the record is returned.
func (s *HistoryService) GetDetail(ctx context.Context, callerID, analysisID uuid.UUID) (*models.AnalysisRecord, error) {
	record, err := s.analysisRepo.GetByID(ctx, analysisID)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}

	if record.UserID != callerID {
		return nil, ErrAnalysisForbidden
	}

	return record, nil
}
