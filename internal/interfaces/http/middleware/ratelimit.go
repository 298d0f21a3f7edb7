package middleware

import (
	"math"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/praxisops/praxis/internal/infrastructure/ratelimit"
	"github.com/praxisops/praxis/internal/shared/errors"
	"github.com/praxisops/praxis/internal/shared/utils"
)

// RateLimit enforces a sliding-window limit per client IP. Rejections carry
// a Retry-After header and the retry hint inside the error body. A limiter
// backend failure lets the request through rather than blocking traffic.
func RateLimit(limiter ratelimit.RateLimiter, limit ratelimit.Limit) gin.HandlerFunc {
	return RateLimitKeyed(limiter, limit, func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

// RateLimitKeyed is RateLimit with a caller-supplied key function, for
// stricter per-route windows keyed by user or token.
func RateLimitKeyed(limiter ratelimit.RateLimiter, limit ratelimit.Limit, keyFn func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(keyFn(c), limit)
		if err != nil {
			c.Next()
			return
		}

		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError(retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthRateLimit is the stricter window for login and password endpoints,
// keyed by IP and path so one credential surface cannot starve another.
func AuthRateLimit(limiter ratelimit.RateLimiter, requests int, window time.Duration) gin.HandlerFunc {
	limit := ratelimit.Limit{Requests: requests, Window: window}
	return RateLimitKeyed(limiter, limit, func(c *gin.Context) string {
		return "auth:" + c.ClientIP() + ":" + c.FullPath()
	})
}
