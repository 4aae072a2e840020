package repository

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// OrderStore persists orders inside a scoped transaction. Every read only
// returns rows visible to the transaction's identity.
type OrderStore interface {
	Insert(ctx context.Context, requesterID int64, fields model.OrderFields, status model.OrderStatus) (*model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus, actorID int64) (*model.Order, error)
	UpdateFields(ctx context.Context, id int64, fields model.OrderFields, actorID int64) (*model.Order, error)
	Delete(ctx context.Context, id int64) error
}
