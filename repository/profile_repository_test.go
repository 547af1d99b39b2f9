package repository

import (
	"context"
	"testing"
	"time"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepositorySaveAndGet(t *testing.T) {
	repo := NewProfileRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	profile := &models.UserProfile{
		ID:           uuid.New(),
		Name:         "Alex Tenant",
		Email:        "tenant@example.com",
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Subscription: "free",
	}
	require.NoError(t, repo.Save(ctx, profile))

	got, err := repo.Get(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.Name, got.Name)
	assert.Equal(t, profile.Email, got.Email)
	assert.Zero(t, got.AnalysisCount)
	assert.Nil(t, got.LastAnalysis)
}

func TestProfileRepositoryRecordAnalysis(t *testing.T) {
	repo := NewProfileRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	profile := &models.UserProfile{
		ID:        uuid.New(),
		Name:      "Alex",
		Email:     "a@example.com",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(ctx, profile))

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordAnalysis(ctx, profile.ID, at))
	require.NoError(t, repo.RecordAnalysis(ctx, profile.ID, at.Add(time.Hour)))

	got, err := repo.Get(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AnalysisCount)
	require.NotNil(t, got.LastAnalysis)
	assert.True(t, got.LastAnalysis.Equal(at.Add(time.Hour)))
}

func TestProfileRepositoryRecordAnalysisMissingProfile(t *testing.T) {
	repo := NewProfileRepository(kvstore.NewMemoryStore())

	// No profile to update is not an error; the analysis itself is already saved
	err := repo.RecordAnalysis(context.Background(), uuid.New(), time.Now().UTC())
	assert.NoError(t, err)
}

func TestProfileRepositoryCredentials(t *testing.T) {
	repo := NewProfileRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	_, err := repo.GetCredentials(ctx, "missing@example.com")
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

	creds := &models.UserCredentials{
		UserID:       uuid.New(),
		Email:        "tenant@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.SaveCredentials(ctx, creds))

	got, err := repo.GetCredentials(ctx, "tenant@example.com")
	require.NoError(t, err)
	assert.Equal(t, creds.UserID, got.UserID)
	assert.Equal(t, creds.PasswordHash, got.PasswordHash)
}
