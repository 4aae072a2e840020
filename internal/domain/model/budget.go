package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetCode is a named allocation orders are charged against.
type BudgetCode struct {
	ID               int64
	Name             string
	Description      string
	TotalAllocation  decimal.Decimal
	AvailableBalance decimal.Decimal
	ValidFrom        *time.Time
	ValidTo          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BudgetBalance aggregates allocation figures of a budget code.
type BudgetBalance struct {
	BudgetCodeID    int64
	Name            string
	TotalAllocation decimal.Decimal
	Available       decimal.Decimal
}

// Committed is the portion of the allocation currently charged by approved orders.
func (b BudgetBalance) Committed() decimal.Decimal {
	return b.TotalAllocation.Sub(b.Available)
}

// Area is an organisational unit scoping budget codes and users.
type Area struct {
	ID          int64
	Name        string
	Department  string
	Description string
}
