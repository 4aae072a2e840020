package config

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exposes configuration loader for fx graphs. Callers supply Args.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(logSafeguards),
)

// logSafeguards records which optional lifecycle safeguards this process runs with.
func logSafeguards(cfg *Config, logger *zap.Logger) {
	logger.Info("lifecycle safeguards",
		zap.Bool("strict_transitions", cfg.StrictTransitions),
		zap.Bool("enforce_approval_ceiling", cfg.EnforceApprovalCeiling),
		zap.Bool("reconcile_on_delete", cfg.ReconcileOnDelete),
		zap.Bool("auto_migrate", cfg.AutoMigrate),
	)
}
