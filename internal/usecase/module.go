package usecase

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/config"
	"github.com/polkiloo/procurement/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		NewAuthUseCase,
		NewResolver,
		NewBudgetUseCase,
		NewNotificationUseCase,
		newOrderLifecycle,
		func(r *Resolver) CapabilityChecker { return r },
	),
)

type lifecycleParams struct {
	fx.In

	Config   *config.Config
	Tx       repository.Transactor
	Perms    CapabilityChecker
	Notifier Notifier
	Metrics  LifecycleMetrics
	Logger   *zap.Logger
}

func newOrderLifecycle(p lifecycleParams) *OrderLifecycle {
	return NewOrderLifecycle(p.Tx, p.Perms, p.Notifier, p.Metrics, LifecycleOptions{
		StrictTransitions:      p.Config.StrictTransitions,
		EnforceApprovalCeiling: p.Config.EnforceApprovalCeiling,
		ReconcileOnDelete:      p.Config.ReconcileOnDelete,
	}, p.Logger.Named("lifecycle"))
}
