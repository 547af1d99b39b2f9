package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"

	"github.com/google/uuid"
)

// AnalysisRepository persists analysis records and the per-user history index
type AnalysisRepository struct {
	store kvstore.Store
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(store kvstore.Store) *AnalysisRepository {
	return &AnalysisRepository{store: store}
}

func analysisKey(id uuid.UUID) string {
	return fmt.Sprintf("analysis:%s", id)
}

func historyKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_analyses:%s", userID)
}

func artifactKey(analysisID uuid.UUID) string {
	return fmt.Sprintf("report_artifact:%s", analysisID)
}

// Save writes an analysis record under analysis:{id}
func (r *AnalysisRepository) Save(ctx context.Context, record *models.AnalysisRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis record: %w", err)
	}
	return r.store.Set(ctx, analysisKey(record.ID), data)
}

// GetByID retrieves an analysis record by id
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	data, err := r.store.Get(ctx, analysisKey(id))
	if err != nil {
		return nil, err
	}

	record := &models.AnalysisRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis record: %w", err)
	}
	return record, nil
}

// SaveReportArtifact records where an analysis report was archived
func (r *AnalysisRepository) SaveReportArtifact(ctx context.Context, artifact *models.ReportArtifact) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal report artifact: %w", err)
	}
	return r.store.Set(ctx, artifactKey(artifact.AnalysisID), data)
}

// ReportArtifact returns the archived report pointer for an analysis
func (r *AnalysisRepository) ReportArtifact(ctx context.Context, analysisID uuid.UUID) (*models.ReportArtifact, error) {
	data, err := r.store.Get(ctx, artifactKey(analysisID))
	if err != nil {
		return nil, err
	}

	artifact := &models.ReportArtifact{}
	if err := json.Unmarshal(data, artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report artifact: %w", err)
	}
	return artifact, nil
}

// AppendToHistory appends an analysis id to the user's history index.
// The index is read-modify-write; concurrent appends for the same user can
// lose an update. That matches the underlying store's guarantees.
func (r *AnalysisRepository) AppendToHistory(ctx context.Context, userID, analysisID uuid.UUID) error {
	ids, err := r.HistoryIDs(ctx, userID)
	if err != nil {
		return err
	}

	ids = append(ids, analysisID)
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal history index: %w", err)
	}
	return r.store.Set(ctx, historyKey(userID), data)
}

// HistoryIDs returns the user's analysis ids in creation order. A missing
// index means the user has no analyses yet.
func (r *AnalysisRepository) HistoryIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	data, err := r.store.Get(ctx, historyKey(userID))
	if err != nil {
		if err == kvstore.ErrKeyNotFound {
			return []uuid.UUID{}, nil
		}
		return nil, err
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history index: %w", err)
	}
	return ids, nil
}
