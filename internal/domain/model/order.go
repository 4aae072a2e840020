package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes purchase order lifecycle.
type OrderStatus string

const (
	OrderStatusNew           OrderStatus = "NEW"
	OrderStatusPendingReview OrderStatus = "PENDING_REVIEW"
	OrderStatusApproved      OrderStatus = "APPROVED"
	OrderStatusRejected      OrderStatus = "REJECTED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"
	OrderStatusCompleted     OrderStatus = "COMPLETED"
)

// OrderStatuses lists the fixed status set in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusPendingReview,
	OrderStatusApproved,
	OrderStatusRejected,
	OrderStatusCancelled,
	OrderStatusCompleted,
}

// Valid reports whether s belongs to the fixed status set.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Priority is an informational urgency marker.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Order is a purchase order charged against a budget code.
type Order struct {
	ID           int64
	RequesterID  int64
	BudgetCodeID int64
	Amount       decimal.Decimal
	Currency     string
	Product      string
	Quantity     int
	UnitPrice    decimal.Decimal
	Supplier     *string
	DeliveryDate *time.Time
	Priority     Priority
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UpdatedBy    *int64
}

// OrderFields holds the editable, non-lifecycle attributes of an order.
type OrderFields struct {
	BudgetCodeID int64
	Amount       decimal.Decimal
	Currency     string
	Product      string
	Quantity     int
	UnitPrice    decimal.Decimal
	Supplier     *string
	DeliveryDate *time.Time
	Priority     Priority
}

// OrderFilter narrows order listings. Visibility is applied separately.
type OrderFilter struct {
	Status *OrderStatus
	From   *time.Time
	To     *time.Time
	Search string
	Limit  int
	Offset int
}
