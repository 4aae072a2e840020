package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAreaMismatch       = errors.New("budget code is not available for requester area")
	ErrForbidden          = errors.New("forbidden")
	ErrBudgetExceeded     = errors.New("budget exceeded")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrTransactionFailure = errors.New("transaction failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError lists offending input fields. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// BudgetExceededError reports requested and available amounts. It matches ErrBudgetExceeded.
type BudgetExceededError struct {
	BudgetCodeID int64
	Requested    decimal.Decimal
	Available    decimal.Decimal
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("%s: requested %s, available %s", ErrBudgetExceeded, e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *BudgetExceededError) Is(target error) bool { return target == ErrBudgetExceeded }

// Transaction wraps a storage failure so callers only see ErrTransactionFailure
// while the cause stays available to logs.
func Transaction(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransactionFailure, err)
}

// IsDomain reports whether err belongs to the caller-visible taxonomy.
func IsDomain(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrNotFound, ErrAreaMismatch, ErrForbidden,
		ErrBudgetExceeded, ErrInvalidStatus, ErrInvalidTransition, ErrInvalidCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
