package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows browser requests from the configured frontend origin.
func CORS(frontendURL string) gin.HandlerFunc {
	allowed := []string{"http://localhost:5173"}
	if frontendURL != "" && frontendURL != allowed[0] {
		allowed = append(allowed, frontendURL)
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
