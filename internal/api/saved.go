package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tastebook/backend/internal/middleware"
	"github.com/tastebook/backend/internal/service"
)

// SavedRecipeHandler handles the user's saved-recipe list
type SavedRecipeHandler struct {
	savedService service.ISavedRecipeService
	authService  service.IAuthService
}

func NewSavedRecipeHandler(savedService service.ISavedRecipeService, authService service.IAuthService) *SavedRecipeHandler {
	return &SavedRecipeHandler{
		savedService: savedService,
		authService:  authService,
	}
}

func (h *SavedRecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	saved := router.Group("")
	saved.Use(middleware.AuthMiddleware(h.authService))
	{
		saved.POST("/recipes/:id/save", h.SaveRecipe)
		saved.DELETE("/recipes/:id/save", h.UnsaveRecipe)
		saved.GET("/saved-recipes", h.ListSaved)
	}
}

// SaveRecipe bookmarks a recipe for the current user. Saving a recipe that
// is already saved responds the same as the first save.
func (h *SavedRecipeHandler) SaveRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if _, err := h.savedService.SaveRecipe(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "recipe saved successfully",
		"id":      recipeID.String(),
	})
}

// UnsaveRecipe removes a bookmark. Unsaving something not saved is fine.
func (h *SavedRecipeHandler) UnsaveRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.savedService.UnsaveRecipe(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "recipe unsaved successfully",
		"id":      recipeID.String(),
	})
}

// ListSaved returns the caller's saved recipes, most recently saved first.
func (h *SavedRecipeHandler) ListSaved(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipes, err := h.savedService.ListSaved(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
