package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tastebook/backend/internal/middleware"
	"github.com/tastebook/backend/internal/service"
	"github.com/tastebook/backend/internal/types"
)

// RecipeHandler handles recipe CRUD, search and import
type RecipeHandler struct {
	recipeService   service.IRecipeService
	externalService service.IExternalRecipeService
	authService     service.IAuthService
	creationLimiter *middleware.RateLimiter
	importLimiter   *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, externalService service.IExternalRecipeService, authService service.IAuthService) *RecipeHandler {
	return NewRecipeHandlerWithRateLimit(recipeService, externalService, authService, nil, nil)
}

// NewRecipeHandlerWithRateLimit creates a recipe handler with per-user rate
// limiting on creation and import. Either limiter may be nil, in which case
// the corresponding route runs unlimited.
func NewRecipeHandlerWithRateLimit(recipeService service.IRecipeService, externalService service.IExternalRecipeService, authService service.IAuthService, creationLimiter, importLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		externalService: externalService,
		authService:     authService,
		creationLimiter: creationLimiter,
		importLimiter:   importLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.protected(h.creationLimiter, h.CreateRecipe)...)
		recipes.POST("/import", h.protected(h.importLimiter, h.ImportRecipe)...)
		recipes.PUT("/:id", h.protected(nil, h.UpdateRecipe)...)
		recipes.DELETE("/:id", h.protected(nil, h.DeleteRecipe)...)
	}
}

// protected builds the middleware chain for a mutating route: auth first,
// then the optional rate limiter, then the handler.
func (h *RecipeHandler) protected(limiter *middleware.RateLimiter, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(h.authService)}
	if limiter != nil {
		chain = append(chain, limiter.RateLimitMiddleware())
	}
	return append(chain, handler)
}

// ListRecipes returns all recipes, optionally filtered to a single author
// via the user_id query parameter.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var owner *uuid.UUID
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		owner = &id
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// SearchRecipes runs the query against our own catalog and the external
// API in one shot. External failures do not fail the request; the response
// degrades to internal results plus an external_error message.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	internal, err := h.recipeService.SearchRecipes(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"recipes":          internal,
		"external_results": []service.ExternalRecipeResult{},
	}

	// An empty query lists the catalog; it is not forwarded upstream.
	if query != "" && h.externalService != nil {
		external, err := h.externalService.Search(c.Request.Context(), query)
		if err != nil {
			log.Printf("external recipe search degraded: %v", err)
			resp["external_error"] = "external recipe search is currently unavailable"
		} else if external != nil {
			resp["external_results"] = external
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, service.CreateRecipeInput{
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// ImportRecipe fetches one external recipe and stores it as a recipe owned
// by the caller. Importing the same external recipe twice hands back the
// copy created the first time.
func (h *RecipeHandler) ImportRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if h.externalService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "external recipe search is not configured"})
		return
	}

	var req types.ImportRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.externalService.GetRecipe(c.Request.Context(), req.ExternalID)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipeService.ImportRecipe(c.Request.Context(), userID, result)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, userID, service.UpdateRecipeInput{
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "recipe deleted successfully",
		"id":      id.String(),
	})
}
