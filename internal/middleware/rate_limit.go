package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the fixed window counters reset on.
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// KeyPrefix namespaces the Redis counters.
	KeyPrefix string
}

// RateLimiter counts requests per user in fixed Redis windows.
type RateLimiter struct {
	redis  redis.Cmdable
	config RateLimitConfig
	log    *logger.Logger
}

func NewRateLimiter(client redis.Cmdable, config RateLimitConfig, log *logger.Logger) *RateLimiter {
	return &RateLimiter{redis: client, config: config, log: log}
}

// NewMutationRateLimiter caps writes (recipe edits, cook events, inventory changes) per user.
func NewMutationRateLimiter(client redis.Cmdable, perMinute int, log *logger.Logger) *RateLimiter {
	return NewRateLimiter(client, RateLimitConfig{
		Window:    time.Minute,
		Limit:     perMinute,
		KeyPrefix: "rate_limit:mutations",
	}, log)
}

func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}

// Middleware enforces the limit for the authenticated user. Redis failures let the request
// through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), actor.String())
		if err != nil {
			rl.log.Warn("rate limit check failed", "user_id", actor, "error", err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("limit of %d requests per %v reached", rl.config.Limit, rl.config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			return
		}
		c.Next()
	}
}

// IsAllowed counts one request for key and reports whether it fits in the current window.
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := rl.key(key, windowStart)

	pipe := rl.redis.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incr.Val())
	return count <= rl.config.Limit, max(rl.config.Limit-count, 0), windowStart.Add(rl.config.Window), nil
}

// Remaining reports what is left in the current window without counting a request.
func (rl *RateLimiter) Remaining(ctx context.Context, key string) (int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, rl.key(key, windowStart)).Int()
	if err == redis.Nil {
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	return max(rl.config.Limit-count, 0), resetTime, nil
}

func (rl *RateLimiter) key(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())
}
