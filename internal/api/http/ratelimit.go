package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/persistence"
	apperrors "github.com/betaops/beta-manager/pkg/util"
)

// RateLimiter enforces fixed-window per-IP request limits backed by
// Redis. When Redis is unreachable the limiter lets requests through;
// losing rate limiting is preferable to taking the API down with it.
type RateLimiter struct {
	redis  *persistence.Redis
	logger *zap.Logger
}

// NewRateLimiter constructs the limiter.
func NewRateLimiter(redis *persistence.Redis, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{redis: redis, logger: logger}
}

// Limit returns a middleware allowing perMinute requests per client IP
// within each one-minute window. The scope separates counters between
// route groups.
func (rl *RateLimiter) Limit(scope string, perMinute int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.redis == nil || rl.redis.Client == nil || perMinute <= 0 {
			return c.Next()
		}

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, c.IP(), window)

		ctx := c.UserContext()
		count, err := rl.redis.Client.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warn("rate limit check failed, allowing request", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			// First hit in the window owns the expiry.
			if err := rl.redis.Client.Expire(ctx, key, time.Minute).Err(); err != nil {
				rl.logger.Warn("rate limit expiry not set", zap.Error(err))
			}
		}

		if count > int64(perMinute) {
			c.Set("Retry-After", "60")
			return apperrors.NewDomainError("RATE_LIMITED", "too many requests", fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
