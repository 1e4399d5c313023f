package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window per-user request limit backed by
// Redis. One limiter guards one concern; the key prefix keeps their
// counters apart.
type RateLimiter struct {
	redis  *redis.Client
	window time.Duration
	limit  int
	prefix string
}

func newRateLimiter(client *redis.Client, window time.Duration, limit int, prefix string) *RateLimiter {
	return &RateLimiter{
		redis:  client,
		window: window,
		limit:  limit,
		prefix: prefix,
	}
}

// NewRecipeCreationRateLimiter limits how fast a user can create recipes
func NewRecipeCreationRateLimiter(client *redis.Client) *RateLimiter {
	return newRateLimiter(client, time.Minute, 10, "ratelimit:recipe_creation")
}

// NewRecipeImportRateLimiter limits how fast a user can import external
// recipes, which also caps our spend against the external API
func NewRecipeImportRateLimiter(client *redis.Client) *RateLimiter {
	return newRateLimiter(client, time.Minute, 10, "ratelimit:recipe_import")
}

// windowState is one user's position within the current window.
type windowState struct {
	allowed   bool
	remaining int
	resetAt   time.Time
}

// take counts the request against the user's current window. INCR and
// EXPIRE run in one pipeline so an abandoned counter still expires.
func (rl *RateLimiter) take(ctx context.Context, userID string) (windowState, error) {
	windowStart := time.Now().Truncate(rl.window)
	key := fmt.Sprintf("%s:%s:%d", rl.prefix, userID, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return windowState{}, err
	}

	count := int(incr.Val())
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return windowState{
		allowed:   count <= rl.limit,
		remaining: remaining,
		resetAt:   windowStart.Add(rl.window),
	}, nil
}

// RateLimitMiddleware enforces the limit for the authenticated user. A
// failing Redis lets the request through; the limiter protects quota, it
// is not an availability dependency.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		state, err := rl.take(c.Request.Context(), fmt.Sprintf("%v", userID))
		if err != nil {
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(state.remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(state.resetAt.Unix(), 10))

		if !state.allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.limit, rl.window),
				"retry_after": int(time.Until(state.resetAt).Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
