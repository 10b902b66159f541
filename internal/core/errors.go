package core

import (
	"errors"
	"fmt"
)

// ValidationError reports a computation input that is missing or out of domain.
// Malformed optional numeric inputs are normalized to zero by the calculators
// instead of raising this; financial fields are never silently swallowed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError constructs a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

var (
	// ErrOverpayment is returned when a payment exceeds the invoice's
	// outstanding balance. Overpayments are rejected, never capped.
	ErrOverpayment = errors.New("payment amount exceeds outstanding balance")

	// ErrAlreadySettled is returned when a payment is attempted against an
	// invoice with no outstanding balance.
	ErrAlreadySettled = errors.New("invoice is already fully paid")

	// ErrUnauthorizedReversal is returned when a payment reversal is attempted
	// without elevated authorization.
	ErrUnauthorizedReversal = errors.New("payment reversal requires admin authorization")

	// ErrVersionConflict is returned when an optimistic-concurrency check fails
	// because the invoice row changed between read and write.
	ErrVersionConflict = errors.New("invoice was modified concurrently, retry the operation")
)
