package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"

	"github.com/google/uuid"
)

// ProfileRepository persists user profiles and login credentials
type ProfileRepository struct {
	store kvstore.Store
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(store kvstore.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func profileKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_profile:%s", userID)
}

func credentialsKey(email string) string {
	return fmt.Sprintf("user_credentials:%s", email)
}

// Get retrieves a user profile
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	data, err := r.store.Get(ctx, profileKey(userID))
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return profile, nil
}

// Save writes a user profile
func (r *ProfileRepository) Save(ctx context.Context, profile *models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return r.store.Set(ctx, profileKey(profile.ID), data)
}

// RecordAnalysis increments the profile's analysis counter and stamps the
// time of the latest analysis. A missing profile is left as-is; the analysis
// itself is already persisted and discoverable by id.
func (r *ProfileRepository) RecordAnalysis(ctx context.Context, userID uuid.UUID, at time.Time) error {
	profile, err := r.Get(ctx, userID)
	if err != nil {
		if err == kvstore.ErrKeyNotFound {
			return nil
		}
		return err
	}

	profile.AnalysisCount++
	profile.LastAnalysis = &at
	return r.Save(ctx, profile)
}

// GetCredentials retrieves login credentials by email
func (r *ProfileRepository) GetCredentials(ctx context.Context, email string) (*models.UserCredentials, error) {
	data, err := r.store.Get(ctx, credentialsKey(email))
	if err != nil {
		return nil, err
	}

	creds := &models.UserCredentials{}
	if err := json.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return creds, nil
}

// SaveCredentials writes login credentials
func (r *ProfileRepository) SaveCredentials(ctx context.Context, creds *models.UserCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	return r.store.Set(ctx, credentialsKey(creds.Email), data)
}
