package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentInput is the caller-supplied portion of a payment.
type PaymentInput struct {
	Amount      decimal.Decimal
	Type        PaymentType
	Method      PaymentMethod
	Reference   string
	Notes       string
	PaymentDate time.Time
	ReceivedBy  int
}

// ApplyPayment applies a payment against an invoice's bookkeeping block and
// returns the updated block plus the payment record to persist. It is pure:
// the caller reads a consistent invoice state, applies, and commits atomically.
//
// Rejections (in order): invalid amount or method, already settled, and
// overpayment — an amount above the outstanding balance is an error, never
// silently capped, since capping would hide user error.
func ApplyPayment(b Bookkeeping, in PaymentInput, now time.Time) (Bookkeeping, Payment, error) {
	if !in.Amount.IsPositive() {
		return b, Payment{}, NewValidationError("amount", "must be greater than zero")
	}
	if !in.Method.Valid() {
		return b, Payment{}, NewValidationError("payment_method", "unknown method "+string(in.Method))
	}
	if in.Type != PaymentPartial && in.Type != PaymentFull {
		return b, Payment{}, NewValidationError("payment_type", "must be partial or full")
	}
	if b.OutstandingAmount.LessThanOrEqual(decimal.Zero) {
		return b, Payment{}, ErrAlreadySettled
	}
	if in.Amount.GreaterThan(b.OutstandingAmount) {
		return b, Payment{}, ErrOverpayment
	}

	paymentDate := in.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = now
	}

	b.ReceivedAmount = b.ReceivedAmount.Add(in.Amount)
	b.OutstandingAmount = b.FinalAmount.Sub(b.ReceivedAmount)
	b.LastPaymentDate = &paymentDate
	b.Status = DeriveStatus(b.FinalAmount, b.ReceivedAmount, b.DueDate, now)

	p := Payment{
		Amount:      in.Amount,
		Type:        in.Type,
		Method:      in.Method,
		Reference:   in.Reference,
		Notes:       in.Notes,
		PaymentDate: paymentDate,
		ReceivedBy:  in.ReceivedBy,
	}
	return b, p, nil
}

// ReversePayment undoes a previously applied payment, recomputing the
// bookkeeping block exactly as the forward path does. authToken is the opaque
// elevated-authorization token; this function only requires it to be present —
// validating it against a real credential is the persistence layer's job.
func ReversePayment(b Bookkeeping, p Payment, authToken string, now time.Time) (Bookkeeping, error) {
	if authToken == "" {
		return b, ErrUnauthorizedReversal
	}
	if !p.Amount.IsPositive() || p.Amount.GreaterThan(b.ReceivedAmount) {
		return b, NewValidationError("payment", "reversal amount exceeds received total")
	}

	b.ReceivedAmount = b.ReceivedAmount.Sub(p.Amount)
	b.OutstandingAmount = b.FinalAmount.Sub(b.ReceivedAmount)
	b.Status = DeriveStatus(b.FinalAmount, b.ReceivedAmount, b.DueDate, now)
	return b, nil
}
