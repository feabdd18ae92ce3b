package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/tariffdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewLimiter),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
}

// NewLimiter picks the redis limiter when RATE_LIMIT_REDIS_ADDR is set and
// the in-memory one otherwise.
func NewLimiter(p Params) RateLimiter {
	opts := Options{Max: p.Config.RateLimit.Max, Window: p.Config.RateLimit.Window}
	log := p.Log.Named("ratelimit")

	if addr := p.Config.RateLimit.RedisAddr; addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		log.Info("using redis fixed window", zap.String("addr", addr), zap.Int("max", opts.Max), zap.Duration("window", opts.Window))
		return NewRedisFixedWindow(client, opts)
	}

	limiter := NewFixedWindow(opts)
	ctx, cancel := context.WithCancel(context.Background())
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go limiter.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	log.Info("using in-memory fixed window", zap.Int("max", opts.Max), zap.Duration("window", opts.Window))
	return limiter
}
