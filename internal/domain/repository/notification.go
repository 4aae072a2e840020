package repository

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// NotificationRepository stores user notifications.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, items []model.Notification) ([]model.Notification, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
}
