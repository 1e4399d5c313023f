package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tastebook/backend/internal/middleware"
	"github.com/tastebook/backend/internal/service"
)

// ImageHandler handles recipe image uploads
type ImageHandler struct {
	recipeService service.IRecipeService
	imageService  service.IImageService
	authService   service.IAuthService
}

// NewImageHandler creates an image handler. imageService may be nil when
// object storage is not configured; uploads then answer 503.
func NewImageHandler(recipeService service.IRecipeService, imageService service.IImageService, authService service.IAuthService) *ImageHandler {
	return &ImageHandler{
		recipeService: recipeService,
		imageService:  imageService,
		authService:   authService,
	}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/:id/image", middleware.AuthMiddleware(h.authService), h.UploadRecipeImage)
}

// UploadRecipeImage accepts a multipart "image" file, stores it and points
// the recipe's image_url at the stored copy. Only the recipe owner may
// replace its image.
func (h *ImageHandler) UploadRecipeImage(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
		return
	}

	// Ownership check before touching storage.
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if recipe.UserID != userID {
		respondError(c, service.ErrNotAuthorized)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image file"})
		return
	}

	imageURL, err := h.imageService.UploadRecipeImage(c.Request.Context(), recipeID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), recipeID, userID, service.UpdateRecipeInput{ImageURL: &imageURL})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"image_url": imageURL,
		"recipe":    updated,
	})
}
