package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bookkeeping is the payment-tracking block shared by every invoice-like
// record. Invariants maintained by the payment ledger:
//
//	OutstandingAmount = FinalAmount − ReceivedAmount
//	0 ≤ ReceivedAmount ≤ FinalAmount
type Bookkeeping struct {
	FinalAmount       decimal.Decimal `json:"final_amount"`
	ReceivedAmount    decimal.Decimal `json:"received_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	Status            InvoiceStatus   `json:"status"`
	InvoiceDate       time.Time       `json:"invoice_date"`
	DueDate           time.Time       `json:"due_date"`
	LastPaymentDate   *time.Time      `json:"last_payment_date,omitempty"`
}

// Audit records who created and last touched a record. Never null after
// creation.
type Audit struct {
	CreatedBy int       `json:"created_by"`
	UpdatedBy int       `json:"updated_by"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SalesInvoice is a single-currency (PKR) customer invoice.
type SalesInvoice struct {
	ID           int             `json:"id"`
	CustomerName string          `json:"customer_name"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	VATPct       decimal.Decimal `json:"vat_percentage"`
	Discount     decimal.Decimal `json:"discount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	Bookkeeping
	Audit
}

// PurchaseInvoice is a supplier purchase with itemized landed-cost charges.
// The outstanding side tracks what we still owe the supplier.
type PurchaseInvoice struct {
	ID            int             `json:"id"`
	SupplierName  string          `json:"supplier_name"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	Transport     decimal.Decimal `json:"transport"`
	Freight       decimal.Decimal `json:"freight"`
	EForm         decimal.Decimal `json:"e_form"`
	Miscellaneous decimal.Decimal `json:"miscellaneous"`
	TransferRate  decimal.Decimal `json:"transfer_rate"`
	SubtotalPKR   decimal.Decimal `json:"subtotal_pkr"`
	TotalAED      decimal.Decimal `json:"total_aed"`
	Bookkeeping                   // FinalAmount holds the PKR landed total
	Audit
}

// DualCurrencyInvoice covers the four structurally identical freight-type
// invoices (freight, transport, dubai_transport, dubai_clearance). The PKR
// amount is authoritative; AmountAED is derived via ConversionRate (PKR per
// AED). Kind selects the collection/endpoint, nothing else.
type DualCurrencyInvoice struct {
	ID             int             `json:"id"`
	Kind           InvoiceKind     `json:"kind"`
	PartyName      string          `json:"party_name"`
	Agent          string          `json:"agent,omitempty"` // free text by domain
	ContainerNo    string          `json:"container_no,omitempty"`
	AmountPKR      decimal.Decimal `json:"amount_pkr"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	AmountAED      decimal.Decimal `json:"amount_aed"`
	Bookkeeping                    // FinalAmount mirrors AmountPKR
	Audit
}

// Payment is one partial or full payment applied against an invoice.
// Deleting a payment is a reversal that recomputes the parent's totals — the
// financial history is corrected, not erased.
type Payment struct {
	ID          int             `json:"id"`
	InvoiceKind InvoiceKind     `json:"invoice_kind"`
	InvoiceID   int             `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        PaymentType     `json:"payment_type"`
	Method      PaymentMethod   `json:"payment_method"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	PaymentDate time.Time       `json:"payment_date"`
	ReceivedBy  int             `json:"received_by"`
	CreatedAt   time.Time       `json:"created_at"`
}
