// Package metrics exposes service counters on a dedicated Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/procurement/internal/domain/model"
)

const namespace = "procurement"

// Metrics records lifecycle and notification outcomes.
type Metrics struct {
	registry             *prometheus.Registry
	transitions          *prometheus.CounterVec
	ledgerMovements      *prometheus.CounterVec
	budgetRejections     prometheus.Counter
	notificationFailures *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Committed order status changes.",
		}, []string{"from", "to"}),
		ledgerMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_movements_total",
			Help:      "Committed budget balance debits and credits.",
		}, []string{"direction"}),
		budgetRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_rejections_total",
			Help:      "Operations refused because the budget code could not cover the amount.",
		}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Lifecycle events whose notifications were dropped or failed.",
		}, []string{"stage"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.transitions,
		m.ledgerMovements,
		m.budgetRejections,
		m.notificationFailures,
	)
	return m
}

// Transition counts a committed status change.
func (m *Metrics) Transition(from, to model.OrderStatus) {
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// LedgerMovement counts a committed debit or credit.
func (m *Metrics) LedgerMovement(direction string) {
	m.ledgerMovements.WithLabelValues(direction).Inc()
}

// BudgetRejected counts a refused debit.
func (m *Metrics) BudgetRejected() {
	m.budgetRejections.Inc()
}

// NotificationFailed counts an undelivered event.
func (m *Metrics) NotificationFailed(stage string) {
	m.notificationFailures.WithLabelValues(stage).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
