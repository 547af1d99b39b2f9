package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/models"
	"leaseguard-backend/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingSignupFields = errors.New("email, password, and name are required")
	ErrEmailTaken          = errors.New("a user with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid authorization token")
)

const tokenTTL = 24 * time.Hour

// AuthService is the local identity provider: it creates accounts, issues
// bearer tokens and verifies them back to a user id
type AuthService struct {
	profileRepo *repository.ProfileRepository
	jwtSecret   []byte
}

// NewAuthService creates a new auth service
func NewAuthService(profileRepo *repository.ProfileRepository, jwtSecret []byte) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		jwtSecret:   jwtSecret,
	}
}

// Signup creates credentials and an initial profile for a new user
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*models.UserProfile, error) {
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingSignupFields
	}

	_, err := s.profileRepo.GetCredentials(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.New()
	now := time.Now().UTC()

	creds := &models.UserCredentials{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.profileRepo.SaveCredentials(ctx, creds); err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		ID:            userID,
		Name:          name,
		Email:         email,
		CreatedAt:     now,
		AnalysisCount: 0,
		Subscription:  "free",
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// Login checks the password and issues a signed bearer token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	creds, err := s.profileRepo.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   creds.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a bearer token and returns the user id it was issued to
func (s *AuthService) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
