package redisqueue

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
)

// Module provides the display queue publisher.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.Logger
}

func newPublisher(p publisherParams) Publisher {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("redis display queue disabled")
		return noopQueue{}
	}

	client := goredis.NewClient(&goredis.Options{Addr: p.Config.RedisAddr})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Logger.Warn("redis unreachable, notifications will be retried per event", zap.String("addr", p.Config.RedisAddr), zap.Error(err))
				return nil
			}
			p.Logger.Info("redis display queue connected", zap.String("addr", p.Config.RedisAddr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewQueue(client)
}
