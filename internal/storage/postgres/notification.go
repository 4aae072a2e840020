package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/procurement/internal/domain/model"
)

type notificationRepository struct {
	storage *Storage
}

// CreateBatch stores all items in one transaction and returns them with ids.
func (r *notificationRepository) CreateBatch(ctx context.Context, items []model.Notification) ([]model.Notification, error) {
	if len(items) == 0 {
		return nil, nil
	}
	const query = `INSERT INTO notifications (user_id, type, message, link) VALUES ($1, $2, $3, $4)
                   RETURNING id, created_at`

	stored := make([]model.Notification, 0, len(items))
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, n := range items {
			if err := tx.QueryRow(ctx, query, n.UserID, n.Type, n.Message, n.Link).Scan(&n.ID, &n.CreatedAt); err != nil {
				return err
			}
			stored = append(stored, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	const query = `SELECT id, user_id, type, message, link, read, created_at
                   FROM notifications WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
