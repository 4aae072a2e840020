// Package redisqueue pushes rendered notifications to per-user Redis lists
// that a UI can poll.
package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// maxPerUser caps the length of each display list.
const maxPerUser = 100

// Publisher stores a notification for display.
type Publisher interface {
	Publish(ctx context.Context, n model.Notification) error
}

type listClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *goredis.StatusCmd
}

// Queue implements Publisher on Redis lists.
type Queue struct {
	client listClient
}

// NewQueue wraps a Redis client.
func NewQueue(client listClient) *Queue {
	return &Queue{client: client}
}

type payload struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the list holding userID's notifications.
func Key(userID int64) string {
	return fmt.Sprintf("procurement:notifications:%d", userID)
}

// Publish prepends n to the recipient's list and trims it.
func (q *Queue) Publish(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(payload{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	key := Key(n.UserID)
	if err := q.client.LPush(ctx, key, body).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}
	if err := q.client.LTrim(ctx, key, 0, maxPerUser-1).Err(); err != nil {
		return fmt.Errorf("ltrim %s: %w", key, err)
	}
	return nil
}

type noopQueue struct{}

func (noopQueue) Publish(context.Context, model.Notification) error { return nil }
