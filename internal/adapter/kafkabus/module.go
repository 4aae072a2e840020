package kafkabus

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
)

// Module provides the lifecycle event publisher.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *zap.Logger
}

func newPublisher(p publisherParams) Publisher {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("kafka event bus disabled")
		return noopBus{}
	}

	logger := p.Logger.Named("kafka")
	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.Config.KafkaBrokers...),
		Topic:        p.Config.KafkaTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 5 * time.Second,
		Logger:       kafkaLogger(logger),
		ErrorLogger:  kafkaErrorLogger(logger),
	}
	bus := NewBus(writer, p.Config.KafkaTopic)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bus.Close()
		},
	})
	logger.Info("kafka event bus configured", zap.Strings("brokers", p.Config.KafkaBrokers), zap.String("topic", p.Config.KafkaTopic))
	return bus
}
