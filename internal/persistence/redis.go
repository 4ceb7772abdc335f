package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/parts-store/internal/config"
)

const redisPingTimeout = 2 * time.Second

// Redis holds the client shared by the rate limiter and the health check.
// A nil Client means rate limiting is off.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the client without failing startup: an unreachable server is
// logged and the limiter fails open until it comes back.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Warn("REDIS_ADDR not set; rate limiting disabled")
		return &Redis{}
	}

	client := redis.NewClient(redisOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	fields := []zap.Field{zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB)}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable at startup", append(fields, zap.Error(err))...)
	} else {
		logger.Info("redis ready", fields...)
	}
	return &Redis{Client: client}
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisPingTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return fmt.Errorf("redis: %w", ErrNotConfigured)
	}
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() {
	if r == nil || r.Client == nil {
		return
	}
	_ = r.Client.Close()
}
