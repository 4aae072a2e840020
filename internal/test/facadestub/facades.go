// Package facadestub holds controllable facades for transport tests.
package facadestub

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/procurement/internal/domain/model"
	testhelpers "github.com/polkiloo/procurement/internal/test"
	"github.com/polkiloo/procurement/internal/usecase"
)

// SampleOrder returns a fully populated order for transport tests.
func SampleOrder(id int64) model.Order {
	supplier := "Acme"
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return model.Order{
		ID:           id,
		RequesterID:  1,
		BudgetCodeID: 1,
		Amount:       decimal.RequireFromString("120.50"),
		Currency:     "EUR",
		Product:      "Laptop stand",
		Quantity:     1,
		UnitPrice:    decimal.RequireFromString("120.50"),
		Supplier:     &supplier,
		Priority:     model.PriorityNormal,
		Status:       model.OrderStatusNew,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn       func(context.Context, model.Identity, usecase.CreateOrderInput) (*model.Order, error)
	OrdersFn       func(context.Context, model.Identity, model.OrderFilter) ([]model.Order, error)
	OrderFn        func(context.Context, model.Identity, int64) (*model.Order, error)
	UpdateFn       func(context.Context, model.Identity, int64, usecase.UpdateOrderInput) (*model.Order, error)
	UpdateStatusFn func(context.Context, model.Identity, int64, model.OrderStatus, string) (*model.Order, error)
	DeleteFn       func(context.Context, model.Identity, int64) error
}

// CreateOrder delegates to provided function or echoes the input.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, identity model.Identity, in usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, identity, in)
	}
	o := SampleOrder(1)
	o.RequesterID = identity.UserID
	o.BudgetCodeID = in.BudgetCodeID
	o.Amount = in.Amount
	return &o, nil
}

// Orders returns predefined orders.
func (s OrderFacadeStub) Orders(ctx context.Context, identity model.Identity, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, identity, filter)
	}
	return []model.Order{SampleOrder(1)}, nil
}

// Order returns a single order.
func (s OrderFacadeStub) Order(ctx context.Context, identity model.Identity, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, identity, id)
	}
	o := SampleOrder(id)
	return &o, nil
}

// UpdateOrder returns the order with edited amount.
func (s OrderFacadeStub) UpdateOrder(ctx context.Context, identity model.Identity, id int64, in usecase.UpdateOrderInput) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, identity, id, in)
	}
	o := SampleOrder(id)
	o.Amount = in.Amount
	return &o, nil
}

// UpdateOrderStatus returns the order in the requested status.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, identity model.Identity, id int64, status model.OrderStatus, comment string) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, identity, id, status, comment)
	}
	o := SampleOrder(id)
	o.Status = status
	return &o, nil
}

// DeleteOrder executes configured handler.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, identity model.Identity, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, identity, id)
	}
	return nil
}

// BudgetFacadeStub simulates the balance view.
type BudgetFacadeStub struct {
	BalanceFn func(context.Context, model.Identity, int64) (*model.BudgetBalance, error)
}

// BudgetBalance returns stored balance or default data.
func (s BudgetFacadeStub) BudgetBalance(ctx context.Context, identity model.Identity, id int64) (*model.BudgetBalance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, identity, id)
	}
	return &model.BudgetBalance{
		BudgetCodeID:    id,
		Name:            "IT-2024",
		TotalAllocation: decimal.NewFromInt(1000),
		Available:       decimal.NewFromInt(600),
	}, nil
}

// NotificationFacadeStub returns canned notifications.
type NotificationFacadeStub struct {
	NotificationsFn func(context.Context, model.Identity, int) ([]model.Notification, error)
}

// Notifications returns preconfigured history.
func (s NotificationFacadeStub) Notifications(ctx context.Context, identity model.Identity, limit int) ([]model.Notification, error) {
	if s.NotificationsFn != nil {
		return s.NotificationsFn(ctx, identity, limit)
	}
	return []model.Notification{{
		ID:        1,
		UserID:    identity.UserID,
		Type:      model.NotificationOrderStatusChanged,
		Message:   "Order #1 moved to APPROVED",
		Link:      "/orders/1",
		CreatedAt: time.Unix(0, 0).UTC(),
	}}, nil
}

// ProcurementFacadeStub aggregates facade dependencies for HTTP layer tests.
type ProcurementFacadeStub struct {
	testhelpers.AuthFacadeStub
	OrderFacadeStub
	BudgetFacadeStub
	NotificationFacadeStub
}
