package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tastebook/backend/internal/middleware"
	"github.com/tastebook/backend/internal/service"
	"github.com/tastebook/backend/internal/types"
)

// ProfileHandler handles the authenticated user's own account
type ProfileHandler struct {
	profileService service.IProfileService
	authService    service.IAuthService
}

func NewProfileHandler(profileService service.IProfileService, authService service.IAuthService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	profile.Use(middleware.AuthMiddleware(h.authService))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.DELETE("", h.DeleteAccount)
	}
}

// GetProfile returns the caller's account along with their recipes.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	recipes, err := h.profileService.GetUserRecipes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    userResponse(user),
		"recipes": recipes,
	})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// DeleteAccount removes the caller's account, their recipes and all saved
// links, then revokes the session that made the request.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.profileService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	// The account is gone either way; a failed revoke just leaves a
	// session entry to expire on its own.
	if token := bearerToken(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			log.Printf("failed to revoke session after account deletion: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted successfully"})
}
