package repository

import (
	"context"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// Tx exposes the stores bound to one scoped transaction.
type Tx interface {
	Orders() OrderStore
	Ledger() BudgetLedger
	Areas() AreaStore
}

// Transactor runs fn inside a single transaction whose row visibility is
// scoped to identity. fn's error rolls everything back.
type Transactor interface {
	WithinScope(ctx context.Context, identity model.Identity, fn func(ctx context.Context, tx Tx) error) error
}
