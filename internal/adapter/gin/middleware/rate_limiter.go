package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// RateLimiter implements per-client HTTP rate limiting using Redis.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Middleware returns a Gin middleware that counts requests per client IP,
// method and path within a fixed window. Redis failures let the request
// through (fail open).
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	// Atomic increment with expiry on first hit in the window
	const script = `
		local key = KEYS[1]
		local window = tonumber(ARGV[1])

		local count = redis.call('INCR', key)
		if count == 1 then
			redis.call('EXPIRE', key, window)
		end

		return count
	`

	return func(c *gin.Context) {
		if !rl.config.Enabled || rl.client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())
		maxRequests := int64(rl.config.RequestsPerSecond * float64(rl.config.WindowSeconds))

		count, err := rl.client.Eval(c.Request.Context(), script, []string{key},
			rl.config.WindowSeconds).Int64()
		if err != nil {
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if count > maxRequests {
			rl.log.Warn("rate limit exceeded",
				zap.String("key", key),
				zap.Int64("count", count),
				zap.Int64("limit", maxRequests),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
