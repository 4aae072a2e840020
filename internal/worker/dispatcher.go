package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// Handler delivers a single committed lifecycle event.
type Handler interface {
	Deliver(ctx context.Context, event model.OrderEvent) error
}

// FailureRecorder counts events that could not be delivered.
type FailureRecorder interface {
	NotificationFailed(stage string)
}

const (
	defaultWorkers   = 1
	defaultQueueSize = 64
)

// Dispatcher queues lifecycle events and delivers them on a worker pool so
// callers never wait for notification side effects.
type Dispatcher struct {
	handler  Handler
	failures FailureRecorder
	workers  int
	logger   *zap.Logger

	jobs    chan model.OrderEvent
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewDispatcher constructs dispatcher worker pool.
func NewDispatcher(handler Handler, failures FailureRecorder, workers, queueSize int, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		handler:  handler,
		failures: failures,
		workers:  workers,
		logger:   logger,
		jobs:     make(chan model.OrderEvent, queueSize),
	}
}

// Notify enqueues event without blocking. A full or stopped queue drops the
// event and counts it as failed.
func (d *Dispatcher) Notify(_ context.Context, event model.OrderEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(event, "stopped")
		return
	}
	select {
	case d.jobs <- event:
	default:
		d.drop(event, "queue_full")
	}
}

func (d *Dispatcher) drop(event model.OrderEvent, reason string) {
	d.logger.Warn("notification dropped",
		zap.String("reason", reason),
		zap.String("type", string(event.Type)),
		zap.Int64("order_id", event.Order.ID))
	d.failures.NotificationFailed(reason)
}

// Start launches background delivery. The pool outlives ctx; Stop ends it.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop refuses new events, drains the queue and waits for all workers.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
	if d.cancel != nil {
		d.cancel()
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for event := range d.jobs {
		d.deliver(ctx, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event model.OrderEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification handler panicked", zap.Any("panic", r), zap.Int64("order_id", event.Order.ID))
			d.failures.NotificationFailed("panic")
		}
	}()
	if err := d.handler.Deliver(ctx, event); err != nil {
		d.logger.Warn("notification delivery failed",
			zap.Error(err),
			zap.String("type", string(event.Type)),
			zap.Int64("order_id", event.Order.ID))
		d.failures.NotificationFailed("deliver")
	}
}
