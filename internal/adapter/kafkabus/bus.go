// Package kafkabus publishes committed order lifecycle events to Kafka.
package kafkabus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// Publisher emits order events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Bus writes events keyed by order id so one order's events stay ordered.
type Bus struct {
	writer messageWriter
	topic  string
}

// NewBus wraps writer.
func NewBus(writer messageWriter, topic string) *Bus {
	return &Bus{writer: writer, topic: topic}
}

// Event is the wire format of a lifecycle event.
type Event struct {
	Type         string    `json:"type"`
	OrderID      int64     `json:"order_id"`
	RequesterID  int64     `json:"requester_id"`
	BudgetCodeID int64     `json:"budget_code_id"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	PrevStatus   string    `json:"prev_status,omitempty"`
	ActorID      int64     `json:"actor_id"`
	Comment      string    `json:"comment,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func toEvent(e model.OrderEvent) Event {
	return Event{
		Type:         string(e.Type),
		OrderID:      e.Order.ID,
		RequesterID:  e.Order.RequesterID,
		BudgetCodeID: e.Order.BudgetCodeID,
		Amount:       e.Order.Amount.StringFixed(2),
		Currency:     e.Order.Currency,
		Status:       string(e.Order.Status),
		PrevStatus:   string(e.PrevStatus),
		ActorID:      e.ActorID,
		Comment:      e.Comment,
		OccurredAt:   e.OccurredAt,
	}
}

// Publish writes event synchronously.
func (b *Bus) Publish(ctx context.Context, event model.OrderEvent) error {
	body, err := json.Marshal(toEvent(event))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.Order.ID, 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", b.topic, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (b *Bus) Close() error {
	return b.writer.Close()
}

type noopBus struct{}

func (noopBus) Publish(context.Context, model.OrderEvent) error { return nil }

func kafkaLogger(logger *zap.Logger) kafka.LoggerFunc {
	sugar := logger.Sugar()
	return func(msg string, args ...interface{}) {
		sugar.Debugf(msg, args...)
	}
}

func kafkaErrorLogger(logger *zap.Logger) kafka.LoggerFunc {
	sugar := logger.Sugar()
	return func(msg string, args ...interface{}) {
		sugar.Warnf(msg, args...)
	}
}
