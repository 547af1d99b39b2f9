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

func newTestCommunityService(t *testing.T) (*CommunityService, *repository.ProfileRepository) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewCommunityService(repository.NewCommunityRepository(store), repository.NewProfileRepository(store)),
		repository.NewProfileRepository(store)
}

func TestCreatePostUsesProfileName(t *testing.T) {
	svc, profileRepo := newTestCommunityService(t)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, profileRepo.Save(ctx, &models.UserProfile{
		ID:        userID,
		Name:      "Alex Tenant",
		Email:     "tenant@example.com",
		CreatedAt: time.Now().UTC(),
	}))

	post, err := svc.CreatePost(ctx, userID, "Deposit withheld", "My landlord kept the full deposit.", "")
	require.NoError(t, err)
	assert.Equal(t, "Alex Tenant", post.AuthorName)
	assert.Equal(t, "general", post.Category)
	assert.NotNil(t, post.Replies)
	assert.Zero(t, post.Likes)
}

func TestCreatePostAnonymousWithoutProfile(t *testing.T) {
	svc, _ := newTestCommunityService(t)

	post, err := svc.CreatePost(context.Background(), uuid.New(), "Question", "Is this clause normal?", "legal")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", post.AuthorName)
	assert.Equal(t, "legal", post.Category)
}

func TestCreatePostMissingFields(t *testing.T) {
	svc, _ := newTestCommunityService(t)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, uuid.New(), "", "content", "")
	assert.ErrorIs(t, err, ErrMissingPostFields)

	_, err = svc.CreatePost(ctx, uuid.New(), "title", "", "")
	assert.ErrorIs(t, err, ErrMissingPostFields)
}

func TestListPostsNewestFirst(t *testing.T) {
	svc, _ := newTestCommunityService(t)
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, uuid.New(), "first", "content", "")
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, uuid.New(), "second", "content", "")
	require.NoError(t, err)

	// CreatedAt stamps can collide at coarse clock resolution; force an order
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	store := kvstore.NewMemoryStore()
	repo := repository.NewCommunityRepository(store)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	posts, err := NewCommunityService(repo, repository.NewProfileRepository(store)).ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}
