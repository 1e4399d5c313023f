package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/tastebook/backend/internal/middleware"
	"github.com/tastebook/backend/internal/service"
)

// Services bundles everything the API layer depends on. Images and Redis
// are optional: without object storage the upload route answers 503, and
// without Redis the rate-limited routes run unlimited.
type Services struct {
	Auth     service.IAuthService
	Recipes  service.IRecipeService
	Saved    service.ISavedRecipeService
	Profiles service.IProfileService
	External service.IExternalRecipeService
	Images   service.IImageService
	Redis    *redis.Client
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Tastebook API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svcs Services) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	var creationLimiter, importLimiter *middleware.RateLimiter
	if svcs.Redis != nil {
		creationLimiter = middleware.NewRecipeCreationRateLimiter(svcs.Redis)
		importLimiter = middleware.NewRecipeImportRateLimiter(svcs.Redis)
	} else {
		log.Printf("Redis not configured, recipe rate limiting disabled")
	}

	v1 := router.Group("/api/v1")
	NewAuthHandler(svcs.Auth).RegisterRoutes(v1)
	NewRecipeHandlerWithRateLimit(svcs.Recipes, svcs.External, svcs.Auth, creationLimiter, importLimiter).RegisterRoutes(v1)
	NewSavedRecipeHandler(svcs.Saved, svcs.Auth).RegisterRoutes(v1)
	NewImageHandler(svcs.Recipes, svcs.Images, svcs.Auth).RegisterRoutes(v1)
	NewProfileHandler(svcs.Profiles, svcs.Auth).RegisterRoutes(v1)
}
