package models

import (
	"time"

	"github.com/google/uuid"
)

// CommunityPost represents a post stored under community_post:{postId}
type CommunityPost struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	AuthorName string    `json:"authorName"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"createdAt"`
	Replies    []string  `json:"replies"`
	Likes      int       `json:"likes"`
}
