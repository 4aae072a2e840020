package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/domain/model"
)

type handlerStub struct {
	mu        sync.Mutex
	delivered []int64
	err       error
	block     chan struct{}
	panics    bool
}

func (h *handlerStub) Deliver(_ context.Context, event model.OrderEvent) error {
	if h.block != nil {
		<-h.block
	}
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.delivered = append(h.delivered, event.Order.ID)
	return h.err
}

func (h *handlerStub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.delivered)
}

type failureStub struct {
	mu     sync.Mutex
	stages []string
}

func (f *failureStub) NotificationFailed(stage string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stages = append(f.stages, stage)
}

func (f *failureStub) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stages...)
}

func event(id int64) model.OrderEvent {
	return model.OrderEvent{Type: model.NotificationOrderCreated, Order: model.Order{ID: id}}
}

func TestNewDispatcherDefaults(t *testing.T) {
	d := NewDispatcher(&handlerStub{}, &failureStub{}, 0, 0, zap.NewNop())
	if d.workers != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, d.workers)
	}
	if cap(d.jobs) != defaultQueueSize {
		t.Fatalf("expected queue size %d, got %d", defaultQueueSize, cap(d.jobs))
	}
}

func TestDispatcherDeliversQueuedEvents(t *testing.T) {
	h := &handlerStub{}
	d := NewDispatcher(h, &failureStub{}, 2, 8, zap.NewNop())

	d.Notify(context.Background(), event(1))
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Notify(context.Background(), event(2))
	d.Notify(context.Background(), event(3))

	d.Stop()
	if got := h.count(); got != 3 {
		t.Fatalf("expected 3 deliveries, got %d", got)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	h := &handlerStub{block: make(chan struct{})}
	failures := &failureStub{}
	d := NewDispatcher(h, failures, 1, 1, zap.NewNop())
	d.Start(context.Background())

	d.Notify(context.Background(), event(1))
	deadline := time.After(time.Second)
	for len(d.jobs) != 0 {
		select {
		case <-deadline:
			t.Fatal("worker did not pick up first event")
		case <-time.After(5 * time.Millisecond):
		}
	}
	d.Notify(context.Background(), event(2))
	d.Notify(context.Background(), event(3))

	close(h.block)
	d.Stop()

	if got := h.count(); got != 2 {
		t.Fatalf("expected 2 deliveries, got %d", got)
	}
	if stages := failures.all(); len(stages) != 1 || stages[0] != "queue_full" {
		t.Fatalf("expected one queue_full failure, got %v", stages)
	}
}

func TestDispatcherCountsDeliveryFailures(t *testing.T) {
	failures := &failureStub{}
	d := NewDispatcher(&handlerStub{err: errors.New("smtp down")}, failures, 1, 4, zap.NewNop())
	d.Start(context.Background())
	d.Notify(context.Background(), event(1))
	d.Stop()

	if stages := failures.all(); len(stages) != 1 || stages[0] != "deliver" {
		t.Fatalf("expected deliver failure, got %v", stages)
	}
}

func TestDispatcherRecoversHandlerPanic(t *testing.T) {
	failures := &failureStub{}
	d := NewDispatcher(&handlerStub{panics: true}, failures, 1, 4, zap.NewNop())
	d.Start(context.Background())
	d.Notify(context.Background(), event(1))
	d.Notify(context.Background(), event(2))
	d.Stop()

	if stages := failures.all(); len(stages) != 2 || stages[0] != "panic" {
		t.Fatalf("expected two panic failures, got %v", stages)
	}
}

func TestDispatcherRejectsAfterStop(t *testing.T) {
	h := &handlerStub{}
	failures := &failureStub{}
	d := NewDispatcher(h, failures, 1, 4, zap.NewNop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	d.Notify(context.Background(), event(1))
	if h.count() != 0 {
		t.Fatal("expected no delivery after stop")
	}
	if stages := failures.all(); len(stages) != 1 || stages[0] != "stopped" {
		t.Fatalf("expected stopped failure, got %v", stages)
	}
}
