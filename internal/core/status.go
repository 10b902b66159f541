package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeriveStatus computes an invoice's display status from its amounts and due
// date. It is a pure re-derivation evaluated on every read and write — there
// is no persisted transition log.
//
// Precedence: paid wins over everything; overdue wins over partially_paid and
// unpaid for display and filtering, while the partial-payment fact survives in
// the received amount. Overdue is not sticky: it only holds while now is past
// the due date.
func DeriveStatus(finalAmount, receivedAmount decimal.Decimal, dueDate, now time.Time) InvoiceStatus {
	if finalAmount.IsPositive() && receivedAmount.GreaterThanOrEqual(finalAmount) {
		return StatusPaid
	}
	if !dueDate.IsZero() && now.After(dueDate) {
		return StatusOverdue
	}
	if receivedAmount.IsPositive() {
		return StatusPartiallyPaid
	}
	return StatusUnpaid
}
