package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tastebook/backend/internal/types"
)

// TokenValidator resolves a bearer token to the claims carried in it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the authenticated user's identity in the request context under the
// "user_id", "username" and "session_id" keys.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errMsg := bearerToken(c.GetHeader("Authorization"))
		if errMsg != "" {
			abortUnauthorized(c, errMsg)
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			// The client learns the token failed, not why.
			abortUnauthorized(c, "authentication required")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header. A non-empty
// errMsg means the header was missing or not a bearer credential.
func bearerToken(header string) (token, errMsg string) {
	if header == "" {
		return "", "missing authorization header"
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "invalid authorization header format"
	}
	return parts[1], ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	c.Abort()
}
