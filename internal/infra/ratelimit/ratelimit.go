// Package ratelimit provides fixed-window request counters that plug into
// echo's RateLimiter middleware.
package ratelimit

import (
	"context"
	"log/slog"
	"strings"

	"storefront/config"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/errors"

	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the dependencies of NewStore.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewStore returns a Redis-backed store when rateLimit.redis.addr is set so
// that every replica shares the same counters, and an in-process store otherwise.
func NewStore(params Params) (middleware.RateLimiterStore, error) {
	cfg := params.Config.RateLimit

	if cfg.Redis.Addr == "" {
		params.Logger.Info("Rate limiter uses in-memory store",
			slog.Int("max", cfg.Max), slog.Duration("window", cfg.Window))

		return NewMemoryStore(cfg.Max, cfg.Window), nil
	}

	opts, err := redisOptions(cfg.Redis)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to connect to Redis")
			}
			params.Logger.Info("Rate limiter uses Redis store", slog.String("addr", opts.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewRedisStore(client, cfg.Max, cfg.Window, params.Logger), nil
}

// redisOptions accepts either a redis:// URL or a host:port address.
func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		opts, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse Redis URL")
		}

		return opts, nil
	}

	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}
