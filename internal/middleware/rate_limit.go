package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
	// Action labels rejections in metrics
	Action string
	// PerRecipe scopes the counter to the :id route parameter
	PerRecipe bool
}

// RateLimiter counts requests per user in fixed windows stored in Redis.
// A nil client disables limiting.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// NewRecipeCreationRateLimiter limits how many recipes one user may publish.
func NewRecipeCreationRateLimiter(redisClient *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    cfg.RecipeCreationWindow,
		Limit:     cfg.RecipeCreationLimit,
		KeyPrefix: "rate_limit:recipe_creation",
		Action:    "recipe_create",
	})
}

// NewRecipeModificationRateLimiter limits edits and deletes per recipe.
func NewRecipeModificationRateLimiter(redisClient *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    cfg.RecipeModificationWindow,
		Limit:     cfg.RecipeModificationLimit,
		KeyPrefix: "rate_limit:recipe_modification",
		Action:    "recipe_modify",
		PerRecipe: true,
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil || rl.config.Limit <= 0 {
			c.Next()
			return
		}

		viewer := GetViewer(c)
		if viewer.IsAnonymous() {
			abortUnauthorized(c, "authentication credentials were not provided")
			return
		}

		key := viewer.UserID.String()
		if rl.config.PerRecipe {
			key += ":" + c.Param("id")
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), key)
		if err != nil {
			// Log error but don't fail the request
			logging.Ctx(c.Request.Context()).Warn().Err(err).Str("action", rl.config.Action).Msg("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			metrics.RecordRateLimitHit(rl.config.Action)
			retryAfter := int(time.Until(resetTime).Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: fmt.Sprintf("you have exceeded the limit of %d requests per %v", rl.config.Limit, rl.config.Window),
			})
			return
		}

		c.Next()
	}
}

// IsAllowed checks if a request from the given key is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	return count <= rl.config.Limit, remaining, resetTime, nil
}

// Status describes a limiter's state for one key without consuming a request.
type Status struct {
	Enabled   bool      `json:"enabled"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
	Window    string    `json:"window"`
}

// GetRemainingRequests returns the number of requests key may still make
// in the current window.
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, key string) (Status, error) {
	status := Status{
		Enabled: rl.redis != nil && rl.config.Limit > 0,
		Limit:   rl.config.Limit,
		Window:  rl.config.Window.String(),
	}
	if !status.Enabled {
		return status, nil
	}

	windowStart := time.Now().Truncate(rl.config.Window)
	status.ResetTime = windowStart.Add(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	count, err := rl.redis.Get(ctx, redisKey).Int()
	if errors.Is(err, redis.Nil) {
		status.Remaining = rl.config.Limit
		return status, nil
	}
	if err != nil {
		return Status{}, err
	}

	status.Remaining = max(rl.config.Limit-count, 0)
	return status, nil
}
