package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
)

// ledger moves budget code balances with single atomic statements, so
// concurrent transactions never overwrite each other's movement.
type ledger struct {
	db querier
}

func (l *ledger) Debit(ctx context.Context, budgetCodeID int64, amount decimal.Decimal) error {
	const query = `UPDATE budget_codes SET available_balance = available_balance - $2, updated_at = NOW() WHERE id = $1`
	return l.exec(ctx, query, budgetCodeID, amount)
}

func (l *ledger) Credit(ctx context.Context, budgetCodeID int64, amount decimal.Decimal) error {
	const query = `UPDATE budget_codes SET available_balance = available_balance + $2, updated_at = NOW() WHERE id = $1`
	return l.exec(ctx, query, budgetCodeID, amount)
}

func (l *ledger) DebitWithinCeiling(ctx context.Context, budgetCodeID int64, amount decimal.Decimal) error {
	const query = `UPDATE budget_codes SET available_balance = available_balance - $2, updated_at = NOW()
                   WHERE id = $1 AND available_balance >= $2`
	err := l.exec(ctx, query, budgetCodeID, amount)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}

	balance, err := l.Balance(ctx, budgetCodeID)
	if err != nil {
		return err
	}
	return &domainErrors.BudgetExceededError{BudgetCodeID: budgetCodeID, Requested: amount, Available: balance.Available}
}

func (l *ledger) exec(ctx context.Context, query string, budgetCodeID int64, amount decimal.Decimal) error {
	tag, err := l.db.Exec(ctx, query, budgetCodeID, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (l *ledger) LockBalance(ctx context.Context, budgetCodeID int64) (*model.BudgetBalance, error) {
	const query = `SELECT id, name, total_allocation, available_balance FROM budget_codes WHERE id = $1 FOR UPDATE`
	return scanBalance(l.db.QueryRow(ctx, query, budgetCodeID))
}

func (l *ledger) Balance(ctx context.Context, budgetCodeID int64) (*model.BudgetBalance, error) {
	const query = `SELECT id, name, total_allocation, available_balance FROM budget_codes WHERE id = $1`
	return scanBalance(l.db.QueryRow(ctx, query, budgetCodeID))
}

func scanBalance(row pgx.Row) (*model.BudgetBalance, error) {
	var b model.BudgetBalance
	if err := row.Scan(&b.BudgetCodeID, &b.Name, &b.TotalAllocation, &b.Available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

type areaStore struct {
	db querier
}

func (a *areaStore) HasBudgetCode(ctx context.Context, areaID, budgetCodeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM area_budget_codes WHERE area_id = $1 AND budget_code_id = $2)`
	var ok bool
	if err := a.db.QueryRow(ctx, query, areaID, budgetCodeID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
