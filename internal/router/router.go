package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tastebook/backend/internal/api"
	"github.com/tastebook/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(svcs api.Services, frontendURL string) *gin.Engine {
	api.RegisterValidators()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(frontendURL))

	api.RegisterRoutes(router, svcs)

	return router
}
