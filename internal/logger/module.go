package logger

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
)

// Module wires the zap logger and routes fx events through it.
var Module = fx.Options(
	fx.Provide(fromConfig),
	fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Named("fx")}
	}),
)

func fromConfig(cfg *config.Config) *zap.Logger {
	return New(Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
}
