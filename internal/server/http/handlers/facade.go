package handlers

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Authenticate(ctx context.Context, login, password string) (string, error)
	ResolveIdentity(ctx context.Context, token string) (model.Identity, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, identity model.Identity, in usecase.CreateOrderInput) (*model.Order, error)
	Orders(ctx context.Context, identity model.Identity, filter model.OrderFilter) ([]model.Order, error)
	Order(ctx context.Context, identity model.Identity, id int64) (*model.Order, error)
	UpdateOrder(ctx context.Context, identity model.Identity, id int64, in usecase.UpdateOrderInput) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, identity model.Identity, id int64, status model.OrderStatus, comment string) (*model.Order, error)
	DeleteOrder(ctx context.Context, identity model.Identity, id int64) error
}

// BudgetFacade provides the balance view.
type BudgetFacade interface {
	BudgetBalance(ctx context.Context, identity model.Identity, budgetCodeID int64) (*model.BudgetBalance, error)
}

// NotificationFacade lists the caller's notifications.
type NotificationFacade interface {
	Notifications(ctx context.Context, identity model.Identity, limit int) ([]model.Notification, error)
}

// ProcurementFacade aggregates the full set of operations used across handlers.
type ProcurementFacade interface {
	AuthFacade
	OrderFacade
	BudgetFacade
	NotificationFacade
}
