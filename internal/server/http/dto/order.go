package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest is the body of order create and update calls. Status is only
// honoured on create.
type OrderRequest struct {
	BudgetCodeID int64           `json:"budget_code_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Product      string          `json:"product"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     *string         `json:"supplier,omitempty"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	Priority     string          `json:"priority,omitempty"`
	Status       *string         `json:"status,omitempty"`
}

// StatusRequest moves an order to another status.
type StatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// OrderResponse describes a single order.
type OrderResponse struct {
	ID           int64           `json:"id"`
	RequesterID  int64           `json:"requester_id"`
	BudgetCodeID int64           `json:"budget_code_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Product      string          `json:"product"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     *string         `json:"supplier,omitempty"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	Priority     string          `json:"priority"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	UpdatedBy    *int64          `json:"updated_by,omitempty"`
}
