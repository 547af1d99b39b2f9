package handlers

import (
	"errors"
	"net/http"

	"leaseguard-backend/service"

	"github.com/gin-gonic/gin"
)

// CommunityHandler handles community post requests
type CommunityHandler struct {
	authService      *service.AuthService
	communityService *service.CommunityService
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(authService *service.AuthService, communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		authService:      authService,
		communityService: communityService,
	}
}

// ListPosts handles GET /community/posts
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	posts, err := h.communityService.ListPosts(c.Request.Context())
	if err != nil {
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
		"data":    gin.H{"posts": posts},
	})
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// CreatePost handles POST /community/posts
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	userID, ok := authUserID(c, h.authService)
	if !ok {
		return
	}

	var req CreatePostRequest
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

	post, err := h.communityService.CreatePost(c.Request.Context(), userID, req.Title, req.Content, req.Category)
	if err != nil {
		status := http.StatusInternalServerError
		code := "CREATE_FAILED"
		if errors.Is(err, service.ErrMissingPostFields) {
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
			"message": "Post created successfully",
			"post":    post,
		},
	})
}
