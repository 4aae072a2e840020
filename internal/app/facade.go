package app

import (
	"context"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/usecase"
)

// ProcurementFacade adapts the use cases to the transport layer.
type ProcurementFacade struct {
	auth          *usecase.AuthUseCase
	orders        *usecase.OrderLifecycle
	budgets       *usecase.BudgetUseCase
	notifications *usecase.NotificationUseCase
}

func NewProcurementFacade(auth *usecase.AuthUseCase, orders *usecase.OrderLifecycle, budgets *usecase.BudgetUseCase, notifications *usecase.NotificationUseCase) *ProcurementFacade {
	return &ProcurementFacade{auth: auth, orders: orders, budgets: budgets, notifications: notifications}
}

func (f *ProcurementFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *ProcurementFacade) ResolveIdentity(ctx context.Context, token string) (model.Identity, error) {
	return f.auth.ResolveIdentity(ctx, token)
}

func (f *ProcurementFacade) CreateOrder(ctx context.Context, identity model.Identity, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.CreateOrder(ctx, identity, in)
}

func (f *ProcurementFacade) Orders(ctx context.Context, identity model.Identity, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.ListOrders(ctx, identity, filter)
}

func (f *ProcurementFacade) Order(ctx context.Context, identity model.Identity, id int64) (*model.Order, error) {
	return f.orders.GetOrder(ctx, identity, id)
}

func (f *ProcurementFacade) UpdateOrder(ctx context.Context, identity model.Identity, id int64, in usecase.UpdateOrderInput) (*model.Order, error) {
	return f.orders.UpdateOrder(ctx, identity, id, in)
}

func (f *ProcurementFacade) UpdateOrderStatus(ctx context.Context, identity model.Identity, id int64, status model.OrderStatus, comment string) (*model.Order, error) {
	return f.orders.UpdateOrderStatus(ctx, identity, id, status, comment)
}

func (f *ProcurementFacade) DeleteOrder(ctx context.Context, identity model.Identity, id int64) error {
	return f.orders.DeleteOrder(ctx, identity, id)
}

func (f *ProcurementFacade) BudgetBalance(ctx context.Context, identity model.Identity, budgetCodeID int64) (*model.BudgetBalance, error) {
	return f.budgets.Balance(ctx, identity, budgetCodeID)
}

// Notifications lists what was addressed to the caller and nobody else.
func (f *ProcurementFacade) Notifications(ctx context.Context, identity model.Identity, limit int) ([]model.Notification, error) {
	if identity.Empty() {
		return nil, domainErrors.ErrForbidden
	}
	return f.notifications.List(ctx, identity.UserID, limit)
}
