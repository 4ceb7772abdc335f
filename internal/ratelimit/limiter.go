package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-store/internal/config"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

const keyPrefix = "ratelimit"

// Limiter is a fixed-window request counter kept in Redis.
type Limiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewLimiter returns nil when rate limiting is disabled or Redis is not configured.
// A nil *Limiter lets every request through.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	if client == nil || !cfg.Enabled() {
		return nil
	}
	return &Limiter{
		client: client,
		limit:  int64(cfg.Requests),
		window: cfg.Window(),
		logger: logger,
		now:    time.Now,
	}
}

// Allow counts one hit for key in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("%s:%s:%d", keyPrefix, key, l.now().UnixNano()/int64(l.window))

	var hits *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		hits = pipe.Incr(ctx, windowKey)
		pipe.Expire(ctx, windowKey, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return hits.Val() <= l.limit, nil
}

// Middleware limits requests per client IP within scope. Redis failures let
// the request through.
func (l *Limiter) Middleware(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil {
			return c.Next()
		}
		allowed, err := l.Allow(c.UserContext(), scope+":"+c.IP())
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
			return c.Next()
		}
		if !allowed {
			return apperrors.NewTooManyRequests("too many requests")
		}
		return c.Next()
	}
}
