package notification

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/adapter/kafkabus"
	"github.com/polkiloo/procurement/internal/adapter/redisqueue"
	"github.com/polkiloo/procurement/internal/domain/repository"
	"github.com/polkiloo/procurement/internal/usecase"
)

// Module provides the delivery service.
var Module = fx.Provide(newService)

type serviceParams struct {
	fx.In

	Resolver *usecase.Resolver
	Store    repository.NotificationRepository
	Display  redisqueue.Publisher
	Bus      kafkabus.Publisher
	Logger   *zap.Logger
}

func newService(p serviceParams) *Service {
	return NewService(p.Resolver, p.Store, p.Display, p.Bus, p.Logger.Named("notification"))
}
