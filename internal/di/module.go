package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/procurement/internal/adapter/kafkabus"
	"github.com/polkiloo/procurement/internal/adapter/redisqueue"
	"github.com/polkiloo/procurement/internal/app"
	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/logger"
	"github.com/polkiloo/procurement/internal/metrics"
	"github.com/polkiloo/procurement/internal/migration"
	"github.com/polkiloo/procurement/internal/notification"
	"github.com/polkiloo/procurement/internal/pkg/auth"
	"github.com/polkiloo/procurement/internal/server/http/router"
	"github.com/polkiloo/procurement/internal/storage/postgres"
	"github.com/polkiloo/procurement/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		migration.Module,
		postgres.Module,
		fx.Provide(func(s *postgres.Storage) router.HealthChecker { return s }),
		redisqueue.Module,
		kafkabus.Module,
		metrics.Module,
		notification.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
