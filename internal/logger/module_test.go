package logger

import (
	"context"
	"testing"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
)

func TestModuleProvidesLogger(t *testing.T) {
	var resolved *zap.Logger
	app := fx.New(
		fx.Supply(&config.Config{LogLevel: "info", LogFormat: "json"}),
		Module,
		fx.Populate(&resolved),
	)
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
	if err := app.Err(); err != nil {
		t.Fatalf("fx app failed: %v", err)
	}
	if resolved == nil {
		t.Fatal("expected logger to be populated")
	}
}
