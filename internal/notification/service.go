// Package notification turns committed lifecycle events into user
// notifications and forwards them to the display queue and event bus.
package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/procurement/internal/adapter/kafkabus"
	"github.com/polkiloo/procurement/internal/adapter/redisqueue"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/repository"
)

// Recipients lists users holding a capability.
type Recipients interface {
	UsersWithCapability(ctx context.Context, capability model.Capability) ([]int64, error)
}

// Service delivers one event: persist, then fan out.
type Service struct {
	recipients Recipients
	store      repository.NotificationRepository
	display    redisqueue.Publisher
	bus        kafkabus.Publisher
	logger     *zap.Logger
}

// NewService constructs Service.
func NewService(
	recipients Recipients,
	store repository.NotificationRepository,
	display redisqueue.Publisher,
	bus kafkabus.Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{recipients: recipients, store: store, display: display, bus: bus, logger: logger}
}

// Deliver implements worker.Handler.
func (s *Service) Deliver(ctx context.Context, event model.OrderEvent) error {
	items, err := s.build(ctx, event)
	if err != nil {
		return err
	}

	var stored []model.Notification
	if len(items) > 0 {
		stored, err = s.store.CreateBatch(ctx, items)
		if err != nil {
			return fmt.Errorf("store notifications: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, n := range stored {
			if err := s.display.Publish(gctx, n); err != nil {
				return fmt.Errorf("display queue: %w", err)
			}
		}
		return nil
	})
	g.Go(func() error {
		if err := s.bus.Publish(gctx, event); err != nil {
			return fmt.Errorf("event bus: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Debug("notifications delivered",
		zap.String("type", string(event.Type)),
		zap.Int64("order_id", event.Order.ID),
		zap.Int("recipients", len(stored)))
	return nil
}

func (s *Service) build(ctx context.Context, event model.OrderEvent) ([]model.Notification, error) {
	order := event.Order
	link := fmt.Sprintf("/orders/%d", order.ID)

	switch event.Type {
	case model.NotificationOrderCreated:
		ids, err := s.recipients.UsersWithCapability(ctx, model.CapabilityApproveOrder)
		if err != nil {
			return nil, fmt.Errorf("resolve approvers: %w", err)
		}
		msg := fmt.Sprintf("Order #%d for %s %s (%s) awaits approval",
			order.ID, order.Amount.StringFixed(2), order.Currency, order.Product)
		items := make([]model.Notification, 0, len(ids))
		for _, id := range ids {
			items = append(items, model.Notification{UserID: id, Type: event.Type, Message: msg, Link: link})
		}
		return items, nil

	case model.NotificationOrderStatusChanged:
		msg := fmt.Sprintf("Order #%d moved from %s to %s", order.ID, event.PrevStatus, order.Status)
		if event.Comment != "" {
			msg += ": " + event.Comment
		}
		return []model.Notification{{UserID: order.RequesterID, Type: event.Type, Message: msg, Link: link}}, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}
