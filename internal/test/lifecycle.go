package test

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// LifecycleRecorder captures lifecycle hooks appended during tests.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores hook for later invocation.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub records shutdown invocations.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown notifies tests about graceful termination.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}

// NotifierStub records lifecycle events.
type NotifierStub struct {
	mu     sync.Mutex
	events []model.OrderEvent
	// OnNotify runs synchronously for every event when set.
	OnNotify func(model.OrderEvent)
}

// Notify stores event.
func (n *NotifierStub) Notify(_ context.Context, event model.OrderEvent) {
	n.mu.Lock()
	n.events = append(n.events, event)
	n.mu.Unlock()
	if n.OnNotify != nil {
		n.OnNotify(event)
	}
}

// Events returns recorded events in order.
func (n *NotifierStub) Events() []model.OrderEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.OrderEvent(nil), n.events...)
}

// MetricsStub counts lifecycle observations.
type MetricsStub struct {
	mu          sync.Mutex
	Transitions map[string]int
	Movements   map[string]int
	Rejections  int
}

// Transition counts from->to.
func (m *MetricsStub) Transition(from, to model.OrderStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Transitions == nil {
		m.Transitions = make(map[string]int)
	}
	m.Transitions[string(from)+"->"+string(to)]++
}

// LedgerMovement counts direction.
func (m *MetricsStub) LedgerMovement(direction string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Movements == nil {
		m.Movements = make(map[string]int)
	}
	m.Movements[direction]++
}

// BudgetRejected counts rejected debits.
func (m *MetricsStub) BudgetRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejections++
}

// Movement returns the count recorded for direction.
func (m *MetricsStub) Movement(direction string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Movements[direction]
}
