package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"coursestream/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redisClient *redis.Client
	log         *logger.Logger
}

func NewRateLimiter(client *redis.Client, l *logger.Logger) *RateLimiter {
	return &RateLimiter{redisClient: client, log: l}
}

// Limit allows limit requests per client IP and window. Requests pass through
// when Redis is unavailable.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, ip)

		count, err := rl.redisClient.Incr(c, key).Result()
		if err != nil {
			rl.log.Warn("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		// first hit opens the window
		if count == 1 {
			if err := rl.redisClient.Expire(c, key, window).Err(); err != nil {
				rl.log.Warn("rate limiter expire failed", "key", key, "error", err)
			}
		}

		if count > int64(limit) {
			ttl, err := rl.redisClient.TTL(c, key).Result()
			if err == nil && ttl < 0 {
				// the window was never set; reopen it so the key cannot block forever
				if err := rl.redisClient.Expire(c, key, window).Err(); err != nil {
					rl.log.Warn("rate limiter expire failed", "key", key, "error", err)
				}
			}
			if err != nil || ttl < 0 {
				ttl = window
			}

			c.Header("Retry-After", fmt.Sprint(int(math.Ceil(ttl.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": int(math.Ceil(ttl.Seconds())),
			})
			return
		}
		c.Next()
	}
}
