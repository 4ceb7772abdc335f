package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-store/internal/config"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

func newTestLimiter(t *testing.T, requests int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewLimiter(client, config.RateLimitConfig{Requests: requests, WindowSeconds: 60}, zap.NewNop())
	require.NotNil(t, limiter)
	return limiter, mr
}

func TestNewLimiter_Disabled(t *testing.T) {
	assert.Nil(t, NewLimiter(nil, config.RateLimitConfig{Requests: 5, WindowSeconds: 60}, zap.NewNop()))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	assert.Nil(t, NewLimiter(client, config.RateLimitConfig{Requests: 0, WindowSeconds: 60}, zap.NewNop()))
}

func TestLimiter_AllowCountsWithinWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t, 2)
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return start }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "login:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "login:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)

	for _, key := range mr.Keys() {
		assert.Greater(t, mr.TTL(key), time.Duration(0))
	}

	limiter.now = func() time.Time { return start.Add(time.Minute) }
	allowed, err = limiter.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func newLimitedApp(limiter *Limiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message})
		},
	})
	app.Post("/limited", limiter.Middleware("payments"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestLimiter_MiddlewareRejectsOverLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	app := newLimitedApp(limiter)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestLimiter_MiddlewareFailsOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1)
	app := newLimitedApp(limiter)
	mr.Close()

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestLimiter_NilMiddlewarePassesThrough(t *testing.T) {
	var limiter *Limiter
	app := newLimitedApp(limiter)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
