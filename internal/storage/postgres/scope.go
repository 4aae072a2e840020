package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/repository"
)

// Transaction-local, so the pooled connection drops the identity on commit or rollback.
const setScopeQuery = `SELECT set_config('app.current_user_id', $1, true), set_config('app.current_role', $2, true)`

// WithinScope opens one transaction, binds identity to it and runs fn.
// Storage failures surface as ErrTransactionFailure; domain errors pass through.
func (s *Storage) WithinScope(ctx context.Context, identity model.Identity, fn func(ctx context.Context, tx repository.Tx) error) error {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	err := s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		userID := ""
		if !identity.Empty() {
			userID = strconv.FormatInt(identity.UserID, 10)
		}
		if _, err := tx.Exec(ctx, setScopeQuery, userID, identity.Role); err != nil {
			return fmt.Errorf("set access scope: %w", err)
		}
		return fn(ctx, &scopedTx{tx: tx, identity: identity})
	})
	if err != nil && !domainErrors.IsDomain(err) {
		return domainErrors.Transaction(err)
	}
	return err
}

type scopedTx struct {
	tx       pgx.Tx
	identity model.Identity
}

func (t *scopedTx) Orders() repository.OrderStore {
	return &orderStore{db: t.tx, identity: t.identity}
}

func (t *scopedTx) Ledger() repository.BudgetLedger {
	return &ledger{db: t.tx}
}

func (t *scopedTx) Areas() repository.AreaStore {
	return &areaStore{db: t.tx}
}
