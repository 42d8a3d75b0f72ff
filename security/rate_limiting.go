package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles mutating registration endpoints per client using
// Redis counters. Redis failures fail open.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  perMinute,
		window: time.Minute,
	}
}

// MutationLimit returns a route middleware enforcing the per-client limit
// and rejecting obvious scripted clients.
func (r *RateLimiter) MutationLimit() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if r.isSuspiciousUserAgent(e.Request.Header.Get("User-Agent")) {
			return e.JSON(http.StatusForbidden, map[string]string{
				"error": "Access denied",
			})
		}

		key := r.clientKey(e)
		allowed, err := r.Allow(e.Request.Context(), key)
		if err == nil && !allowed {
			return e.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}

		return e.Next()
	}
}

// Allow counts one request against the client key and reports whether it
// still fits the window.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		r.redis.Expire(ctx, key, r.window)
	}
	return count <= int64(r.limit), nil
}

func (r *RateLimiter) clientKey(e *core.RequestEvent) string {
	if e.Auth != nil {
		return fmt.Sprintf("ratelimit:user:%s", e.Auth.Id)
	}
	return fmt.Sprintf("ratelimit:ip:%s", e.RealIP())
}

func (r *RateLimiter) isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	for _, pattern := range suspicious {
		if strings.Contains(strings.ToLower(ua), pattern) {
			return true
		}
	}
	return false
}
