package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"leaseguard-backend/kvstore"
	"leaseguard-backend/repository"
	"leaseguard-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// authUserID extracts and verifies the bearer token, returning the caller's
// user id. On failure it writes the 401 response and returns false.
func authUserID(c *gin.Context, authService *service.AuthService) (uuid.UUID, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if header == "" || len(parts) != 2 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Authorization token required",
			},
		})
		return uuid.Nil, false
	}

	userID, err := authService.Verify(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Invalid authorization token",
			},
		})
		return uuid.Nil, false
	}
	return userID, true
}

// AuthHandler handles signup, login and profile requests
type AuthHandler struct {
	authService *service.AuthService
	profileRepo *repository.ProfileRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, profileRepo *repository.ProfileRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		profileRepo: profileRepo,
	}
}

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	profile, err := h.authService.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		status := http.StatusInternalServerError
		code := "SIGNUP_FAILED"
		if errors.Is(err, service.ErrMissingSignupFields) || errors.Is(err, service.ErrEmailTaken) {
			status = http.StatusBadRequest
			code = "INVALID_REQUEST"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"message": "User created successfully",
			"userId":  profile.ID,
		},
	})
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		code := "LOGIN_FAILED"
		if errors.Is(err, service.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			code = "UNAUTHORIZED"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"accessToken": token,
		},
	})
}

// GetProfile handles GET /profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := authUserID(c, h.authService)
	if !ok {
		return
	}

	profile, err := h.profileRepo.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Profile not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"profile": profile},
	})
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	Name        string            `json:"name"`
	Preferences map[string]string `json:"preferences"`
}

// UpdateProfile handles PUT /profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := authUserID(c, h.authService)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	profile, err := h.profileRepo.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Profile not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.Preferences != nil {
		profile.Preferences = req.Preferences
	}
	now := time.Now().UTC()
	profile.UpdatedAt = &now

	if err := h.profileRepo.Save(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Profile updated successfully",
			"profile": profile,
		},
	})
}
