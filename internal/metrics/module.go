package metrics

import (
	"go.uber.org/fx"

	"github.com/polkiloo/procurement/internal/usecase"
	"github.com/polkiloo/procurement/internal/worker"
)

// Module provides Metrics and binds it to the recorder interfaces.
var Module = fx.Provide(
	New,
	func(m *Metrics) usecase.LifecycleMetrics { return m },
	func(m *Metrics) worker.FailureRecorder { return m },
)
