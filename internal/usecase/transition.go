package usecase

import (
	"fmt"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
)

// TransitionPolicy decides whether an order may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to model.OrderStatus) error
}

// NewTransitionPolicy returns the strict table when strict is set, otherwise
// a policy accepting any pair of valid statuses.
func NewTransitionPolicy(strict bool) TransitionPolicy {
	if strict {
		return strictTransitions{}
	}
	return permissiveTransitions{}
}

type permissiveTransitions struct{}

func (permissiveTransitions) Allow(_, to model.OrderStatus) error {
	if !to.Valid() {
		return domainErrors.ErrInvalidStatus
	}
	return nil
}

var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusNew: {
		model.OrderStatusPendingReview, model.OrderStatusApproved,
		model.OrderStatusRejected, model.OrderStatusCancelled,
	},
	model.OrderStatusPendingReview: {
		model.OrderStatusApproved, model.OrderStatusRejected, model.OrderStatusCancelled,
	},
	model.OrderStatusApproved: {
		model.OrderStatusCompleted, model.OrderStatusCancelled, model.OrderStatusRejected,
	},
}

type strictTransitions struct{}

func (strictTransitions) Allow(from, to model.OrderStatus) error {
	if !to.Valid() {
		return domainErrors.ErrInvalidStatus
	}
	if from == to {
		return nil
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, from, to)
}

type ledgerMovement int

const (
	movementNone ledgerMovement = iota
	movementDebit
	movementCredit
)

func (m ledgerMovement) String() string {
	switch m {
	case movementDebit:
		return "debit"
	case movementCredit:
		return "credit"
	default:
		return "none"
	}
}

// ledgerEffect is the balance movement a status change implies. Only entering
// or leaving APPROVED moves money, so re-approving is a no-op.
func ledgerEffect(from, to model.OrderStatus) ledgerMovement {
	switch {
	case from != model.OrderStatusApproved && to == model.OrderStatusApproved:
		return movementDebit
	case from == model.OrderStatusApproved && to != model.OrderStatusApproved:
		return movementCredit
	default:
		return movementNone
	}
}
