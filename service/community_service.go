package service

import (
	"context"
	"errors"
	"time"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"
	"leaseguard-backend/repository"

	"github.com/google/uuid"
)

// ErrMissingPostFields is returned when a post lacks a title or content
var ErrMissingPostFields = errors.New("title and content are required")

const (
	defaultPostCategory = "general"
	maxRecentPosts      = 20
)

// CommunityService handles community posts
type CommunityService struct {
	communityRepo *repository.CommunityRepository
	profileRepo   *repository.ProfileRepository
}

// NewCommunityService creates a new community service
func NewCommunityService(communityRepo *repository.CommunityRepository, profileRepo *repository.ProfileRepository) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		profileRepo:   profileRepo,
	}
}

// CreatePost creates a community post authored by the given user. The author
// name comes from the profile when available.
func (s *CommunityService) CreatePost(ctx context.Context, userID uuid.UUID, title, content, category string) (*models.CommunityPost, error) {
	if title == "" || content == "" {
		return nil, ErrMissingPostFields
	}

	authorName := "Anonymous"
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, err
	}
	if profile != nil && profile.Name != "" {
		authorName = profile.Name
	}

	if category == "" {
		category = defaultPostCategory
	}

	post := &models.CommunityPost{
		ID:         uuid.New(),
		UserID:     userID,
		AuthorName: authorName,
		Title:      title,
		Content:    content,
		Category:   category,
		CreatedAt:  time.Now().UTC(),
		Replies:    []string{},
		Likes:      0,
	}

	if err := s.communityRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns the most recent posts, newest first
func (s *CommunityService) ListPosts(ctx context.Context) ([]*models.CommunityPost, error) {
	return s.communityRepo.ListRecent(ctx, maxRecentPosts)
}
