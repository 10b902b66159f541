package core

import "time"

// InvoiceKind tags which collection an invoice-like record belongs to.
// The four freight-type kinds share one table and one code path — they are
// structurally identical dual-currency invoices distinguished only by this tag.
type InvoiceKind string

const (
	KindSales          InvoiceKind = "sales"
	KindPurchase       InvoiceKind = "purchase"
	KindFreight        InvoiceKind = "freight"
	KindTransport      InvoiceKind = "transport"
	KindDubaiTransport InvoiceKind = "dubai_transport"
	KindDubaiClearance InvoiceKind = "dubai_clearance"
)

// DualCurrencyKinds lists the freight-type kinds stored in the shared
// dual_currency_invoices table.
var DualCurrencyKinds = []InvoiceKind{KindFreight, KindTransport, KindDubaiTransport, KindDubaiClearance}

// IsDualCurrency reports whether k is one of the freight-type kinds.
func (k InvoiceKind) IsDualCurrency() bool {
	switch k {
	case KindFreight, KindTransport, KindDubaiTransport, KindDubaiClearance:
		return true
	}
	return false
}

type InvoiceStatus string

const (
	StatusUnpaid        InvoiceStatus = "unpaid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
	StatusOverdue       InvoiceStatus = "overdue"
)

type PaymentType string

const (
	PaymentPartial PaymentType = "partial"
	PaymentFull    PaymentType = "full"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheque       PaymentMethod = "cheque"
	MethodCard         PaymentMethod = "card"
	MethodOther        PaymentMethod = "other"
)

// Valid reports whether m is one of the closed set of payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCheque, MethodCard, MethodOther:
		return true
	}
	return false
}

// Customer is a party we sell to. Name is the grouping key used by the
// outstanding report, so it is stored exactly as entered.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Supplier is a party we buy from.
type Supplier struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
