package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
)

// Module applies pending migrations at startup when AUTO_MIGRATE is set.
var Module = fx.Invoke(autoMigrate)

func autoMigrate(cfg *config.Config, logger *zap.Logger) error {
	if !cfg.AutoMigrate {
		return nil
	}
	m, err := New(cfg.DatabaseURI, logger.Named("migration"))
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}
