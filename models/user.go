package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile represents the profile stored under user_profile:{userId}
type UserProfile struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     *time.Time        `json:"updatedAt,omitempty"`
	AnalysisCount int               `json:"analysisCount"`
	LastAnalysis  *time.Time        `json:"lastAnalysis,omitempty"`
	Subscription  string            `json:"subscription"`
	Preferences   map[string]string `json:"preferences,omitempty"`
}

// UserCredentials holds the login secret, stored under
// user_credentials:{email}. Kept separate from the profile so profile
// responses never carry the hash.
type UserCredentials struct {
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
