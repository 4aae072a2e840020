package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/repository"
)

// Notifier receives committed lifecycle events. Implementations must not block
// and their failures never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, event model.OrderEvent)
}

// LifecycleMetrics records lifecycle outcomes.
type LifecycleMetrics interface {
	Transition(from, to model.OrderStatus)
	LedgerMovement(direction string)
	BudgetRejected()
}

// LifecycleOptions switch the optional safeguards of the engine.
type LifecycleOptions struct {
	StrictTransitions      bool
	EnforceApprovalCeiling bool
	ReconcileOnDelete      bool
}

// OrderLifecycle advances orders through their statuses and keeps budget
// balances in step, each operation inside one scoped transaction.
type OrderLifecycle struct {
	tx       repository.Transactor
	perms    CapabilityChecker
	notifier Notifier
	metrics  LifecycleMetrics
	policy   TransitionPolicy
	opts     LifecycleOptions
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrderLifecycle constructs OrderLifecycle.
func NewOrderLifecycle(
	tx repository.Transactor,
	perms CapabilityChecker,
	notifier Notifier,
	metrics LifecycleMetrics,
	opts LifecycleOptions,
	logger *zap.Logger,
) *OrderLifecycle {
	return &OrderLifecycle{
		tx:       tx,
		perms:    perms,
		notifier: notifier,
		metrics:  metrics,
		policy:   NewTransitionPolicy(opts.StrictTransitions),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *OrderLifecycle) require(ctx context.Context, identity model.Identity, capability model.Capability) error {
	if identity.Empty() {
		return domainErrors.ErrForbidden
	}
	ok, err := l.perms.HasCapability(ctx, identity.UserID, capability)
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrForbidden
	}
	return nil
}

// areaGate resolves whether identity may skip area scoping. Callers without an
// area and without the bypass capability are rejected outright.
func (l *OrderLifecycle) areaGate(ctx context.Context, identity model.Identity) (bool, error) {
	crossArea, err := l.perms.HasCapability(ctx, identity.UserID, model.CapabilityCrossArea)
	if err != nil {
		return false, err
	}
	if !crossArea && identity.AreaID == nil {
		return false, domainErrors.ErrAreaMismatch
	}
	return crossArea, nil
}

func checkArea(ctx context.Context, tx repository.Tx, identity model.Identity, crossArea bool, budgetCodeID int64) error {
	if crossArea {
		return nil
	}
	ok, err := tx.Areas().HasBudgetCode(ctx, *identity.AreaID, budgetCodeID)
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrAreaMismatch
	}
	return nil
}

// CreateOrder stores a new order. Any initial status other than NEW also needs
// orders.approve. An order created directly as APPROVED is charged to its
// budget code in the same transaction.
func (l *OrderLifecycle) CreateOrder(ctx context.Context, identity model.Identity, in CreateOrderInput) (*model.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	status := model.OrderStatusNew
	if in.Status != nil {
		status = *in.Status
		if !status.Valid() {
			return nil, domainErrors.ErrInvalidStatus
		}
	}
	if err := l.require(ctx, identity, model.CapabilityCreateOrders); err != nil {
		return nil, err
	}
	if status != model.OrderStatusNew {
		if err := l.require(ctx, identity, model.CapabilityApproveOrder); err != nil {
			return nil, err
		}
	}
	crossArea, err := l.areaGate(ctx, identity)
	if err != nil {
		return nil, err
	}

	fields := in.fields()
	var created *model.Order
	err = l.tx.WithinScope(ctx, identity, func(ctx context.Context, tx repository.Tx) error {
		balance, err := tx.Ledger().LockBalance(ctx, fields.BudgetCodeID)
		if err != nil {
			return err
		}
		if err := checkArea(ctx, tx, identity, crossArea, fields.BudgetCodeID); err != nil {
			return err
		}
		if fields.Amount.GreaterThan(balance.Available) {
			return &domainErrors.BudgetExceededError{
				BudgetCodeID: fields.BudgetCodeID,
				Requested:    fields.Amount,
				Available:    balance.Available,
			}
		}

		order, err := tx.Orders().Insert(ctx, identity.UserID, fields, status)
		if err != nil {
			return err
		}
		if ledgerEffect(model.OrderStatusNew, status) == movementDebit {
			if err := tx.Ledger().Debit(ctx, order.BudgetCodeID, order.Amount); err != nil {
				return err
			}
		}
		created = order
		return nil
	})
	if err != nil {
		l.observeFailure(err)
		return nil, err
	}

	if status == model.OrderStatusApproved {
		l.metrics.LedgerMovement(movementDebit.String())
	}
	l.logger.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.Int64("requester_id", created.RequesterID),
		zap.String("status", string(created.Status)),
		zap.String("amount", created.Amount.String()))
	l.notifier.Notify(ctx, model.OrderEvent{
		Type:       model.NotificationOrderCreated,
		Order:      *created,
		ActorID:    identity.UserID,
		OccurredAt: l.now(),
	})
	return created, nil
}

// UpdateOrderStatus moves an order to status. Entering APPROVED debits the
// budget code, leaving it credits the amount back.
func (l *OrderLifecycle) UpdateOrderStatus(ctx context.Context, identity model.Identity, orderID int64, status model.OrderStatus, comment string) (*model.Order, error) {
	if !status.Valid() {
		return nil, domainErrors.ErrInvalidStatus
	}
	if err := l.require(ctx, identity, model.CapabilityApproveOrder); err != nil {
		return nil, err
	}

	var (
		updated  *model.Order
		previous model.OrderStatus
		movement ledgerMovement
	)
	err := l.tx.WithinScope(ctx, identity, func(ctx context.Context, tx repository.Tx) error {
		order, err := tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := l.policy.Allow(order.Status, status); err != nil {
			return err
		}

		movement = ledgerEffect(order.Status, status)
		switch movement {
		case movementDebit:
			if l.opts.EnforceApprovalCeiling {
				err = tx.Ledger().DebitWithinCeiling(ctx, order.BudgetCodeID, order.Amount)
			} else {
				err = tx.Ledger().Debit(ctx, order.BudgetCodeID, order.Amount)
			}
		case movementCredit:
			err = tx.Ledger().Credit(ctx, order.BudgetCodeID, order.Amount)
		}
		if err != nil {
			return err
		}

		previous = order.Status
		updated, err = tx.Orders().UpdateStatus(ctx, orderID, status, identity.UserID)
		return err
	})
	if err != nil {
		l.observeFailure(err)
		return nil, err
	}

	l.metrics.Transition(previous, status)
	if movement != movementNone {
		l.metrics.LedgerMovement(movement.String())
	}
	l.logger.Info("order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.Int64("actor_id", identity.UserID),
		zap.Stringer("ledger", movement))
	l.notifier.Notify(ctx, model.OrderEvent{
		Type:       model.NotificationOrderStatusChanged,
		Order:      *updated,
		PrevStatus: previous,
		ActorID:    identity.UserID,
		Comment:    comment,
		OccurredAt: l.now(),
	})
	return updated, nil
}

// UpdateOrder replaces the editable fields of an order. Status and balance are
// untouched, so amount and budget code are frozen while the order is APPROVED.
func (l *OrderLifecycle) UpdateOrder(ctx context.Context, identity model.Identity, orderID int64, in UpdateOrderInput) (*model.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := l.require(ctx, identity, model.CapabilityUpdateOrders); err != nil {
		return nil, err
	}
	crossArea, err := l.areaGate(ctx, identity)
	if err != nil {
		return nil, err
	}

	fields := orderFields(in)
	var updated *model.Order
	err = l.tx.WithinScope(ctx, identity, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if _, err := tx.Ledger().Balance(ctx, fields.BudgetCodeID); err != nil {
			return err
		}
		if err := checkArea(ctx, tx, identity, crossArea, fields.BudgetCodeID); err != nil {
			return err
		}
		if current.Status == model.OrderStatusApproved {
			if current.BudgetCodeID != fields.BudgetCodeID {
				return domainErrors.NewValidationError("budget_code_id", "frozen while approved")
			}
			if !current.Amount.Equal(fields.Amount) {
				return domainErrors.NewValidationError("amount", "frozen while approved")
			}
		}
		updated, err = tx.Orders().UpdateFields(ctx, orderID, fields, identity.UserID)
		return err
	})
	if err != nil {
		l.observeFailure(err)
		return nil, err
	}
	return updated, nil
}

// DeleteOrder removes an order. An approved charge stays on the budget code
// unless ReconcileOnDelete is set, in which case it is credited back first.
func (l *OrderLifecycle) DeleteOrder(ctx context.Context, identity model.Identity, orderID int64) error {
	if err := l.require(ctx, identity, model.CapabilityDeleteOrders); err != nil {
		return err
	}

	credited := false
	err := l.tx.WithinScope(ctx, identity, func(ctx context.Context, tx repository.Tx) error {
		order, err := tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if l.opts.ReconcileOnDelete && order.Status == model.OrderStatusApproved {
			if err := tx.Ledger().Credit(ctx, order.BudgetCodeID, order.Amount); err != nil {
				return err
			}
			credited = true
		}
		return tx.Orders().Delete(ctx, orderID)
	})
	if err != nil {
		l.observeFailure(err)
		return err
	}

	if credited {
		l.metrics.LedgerMovement(movementCredit.String())
	}
	l.logger.Info("order deleted", zap.Int64("order_id", orderID), zap.Int64("actor_id", identity.UserID), zap.Bool("credited", credited))
	return nil
}

// GetOrder returns an order visible to identity.
func (l *OrderLifecycle) GetOrder(ctx context.Context, identity model.Identity, orderID int64) (*model.Order, error) {
	var order *model.Order
	err := l.tx.WithinScope(ctx, identity, func(ctx context.Context, tx repository.Tx) error {
		var err error
		order, err = tx.Orders().Get(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns orders visible to identity that match filter.
func (l *OrderLifecycle) ListOrders(ctx context.Context, identity model.Identity, filter model.OrderFilter) ([]model.Order, error) {
	var orders []model.Order
	err := l.tx.WithinScope(ctx, identity, func(ctx context.Context, tx repository.Tx) error {
		var err error
		orders, err = tx.Orders().List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (l *OrderLifecycle) observeFailure(err error) {
	if errors.Is(err, domainErrors.ErrBudgetExceeded) {
		l.metrics.BudgetRejected()
	}
	if errors.Is(err, domainErrors.ErrTransactionFailure) {
		l.logger.Error("lifecycle transaction failed", zap.Error(err))
	}
}
