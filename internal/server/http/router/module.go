package router

import (
	"net/http"

	"go.uber.org/fx"

	"github.com/polkiloo/procurement/internal/metrics"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	Setup,
	fx.Annotate(func(m *metrics.Metrics) http.Handler { return m.Handler() }, fx.ResultTags(`name:"metrics"`)),
)
