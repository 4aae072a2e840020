package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// BudgetLedger mutates budget code balances. Implementations run on the
// caller's transaction and never commit on their own.
type BudgetLedger interface {
	Debit(ctx context.Context, budgetCodeID int64, amount decimal.Decimal) error
	// DebitWithinCeiling debits only while the balance covers amount.
	DebitWithinCeiling(ctx context.Context, budgetCodeID int64, amount decimal.Decimal) error
	Credit(ctx context.Context, budgetCodeID int64, amount decimal.Decimal) error
	// LockBalance reads the balance and holds the row until the transaction ends.
	LockBalance(ctx context.Context, budgetCodeID int64) (*model.BudgetBalance, error)
	Balance(ctx context.Context, budgetCodeID int64) (*model.BudgetBalance, error)
}

// AreaStore answers area scoping questions.
type AreaStore interface {
	HasBudgetCode(ctx context.Context, areaID, budgetCodeID int64) (bool, error)
}
