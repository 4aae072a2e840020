package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/repository"
)

// BudgetUseCase exposes read access to budget code balances.
type BudgetUseCase struct {
	tx repository.Transactor
}

// NewBudgetUseCase constructs BudgetUseCase.
func NewBudgetUseCase(tx repository.Transactor) *BudgetUseCase {
	return &BudgetUseCase{tx: tx}
}

// Balance returns allocation and availability of a budget code.
func (u *BudgetUseCase) Balance(ctx context.Context, identity model.Identity, budgetCodeID int64) (*model.BudgetBalance, error) {
	if identity.Empty() {
		return nil, domainErrors.ErrForbidden
	}
	var balance *model.BudgetBalance
	err := u.tx.WithinScope(ctx, identity, func(ctx context.Context, tx repository.Tx) error {
		var err error
		balance, err = tx.Ledger().Balance(ctx, budgetCodeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// NotificationUseCase lists notifications addressed to a user.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(n repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifications: n}
}

// List returns the latest notifications of userID.
func (u *NotificationUseCase) List(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	return u.notifications.ListByUser(ctx, userID, limit)
}
