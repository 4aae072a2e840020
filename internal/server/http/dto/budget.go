package dto

import "github.com/shopspring/decimal"

// BalanceResponse describes the allocation state of a budget code.
type BalanceResponse struct {
	BudgetCodeID    int64           `json:"budget_code_id"`
	Name            string          `json:"name"`
	TotalAllocation decimal.Decimal `json:"total_allocation"`
	Available       decimal.Decimal `json:"available_balance"`
	Committed       decimal.Decimal `json:"committed"`
}
