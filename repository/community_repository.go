package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"

	"github.com/google/uuid"
)

// CommunityRepository persists community posts
type CommunityRepository struct {
	store kvstore.Store
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(store kvstore.Store) *CommunityRepository {
	return &CommunityRepository{store: store}
}

func postKey(id uuid.UUID) string {
	return fmt.Sprintf("community_post:%s", id)
}

// Save writes a community post
func (r *CommunityRepository) Save(ctx context.Context, post *models.CommunityPost) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}
	return r.store.Set(ctx, postKey(post.ID), data)
}

// ListRecent returns up to limit posts, newest first
func (r *CommunityRepository) ListRecent(ctx context.Context, limit int) ([]*models.CommunityPost, error) {
	values, err := r.store.GetByPrefix(ctx, "community_post:")
	if err != nil {
		return nil, err
	}

	posts := make([]*models.CommunityPost, 0, len(values))
	for _, value := range values {
		post := &models.CommunityPost{}
		if err := json.Unmarshal(value, post); err != nil {
			return nil, fmt.Errorf("failed to unmarshal post: %w", err)
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}
