package app

import (
	"time"

	"github.com/shopspring/decimal"

	"tradebooks/internal/core"
)

// SalesInvoiceRequest is the input for creating or updating a sales invoice.
// Derived amounts (subtotal, VAT, final) are never accepted from the caller.
type SalesInvoiceRequest struct {
	CustomerName string
	ProductName  string
	Quantity     decimal.Decimal
	UnitRate     decimal.Decimal
	VATPct       decimal.Decimal
	Discount     decimal.Decimal
	InvoiceDate  time.Time
	DueDate      time.Time
}

// PurchaseInvoiceRequest is the input for creating or updating a purchase
// invoice. TransferRate is PKR per AED.
type PurchaseInvoiceRequest struct {
	SupplierName  string
	ProductName   string
	Quantity      decimal.Decimal
	UnitRate      decimal.Decimal
	Transport     decimal.Decimal
	Freight       decimal.Decimal
	EForm         decimal.Decimal
	Miscellaneous decimal.Decimal
	TransferRate  decimal.Decimal
	InvoiceDate   time.Time
	DueDate       time.Time
}

// DualCurrencyInvoiceRequest is the input for the freight-type invoices.
// AmountPKR is authoritative; the AED figure is derived from ConversionRate.
type DualCurrencyInvoiceRequest struct {
	PartyName      string
	Agent          string
	ContainerNo    string
	AmountPKR      decimal.Decimal
	ConversionRate decimal.Decimal
	InvoiceDate    time.Time
	DueDate        time.Time
}

// PaymentRequest is the input for recording a payment against an invoice.
type PaymentRequest struct {
	Amount      decimal.Decimal
	Type        core.PaymentType
	Method      core.PaymentMethod
	Reference   string
	Notes       string
	PaymentDate time.Time
}

// ContainerStatementRequest is the input for saving a container statement.
type ContainerStatementRequest struct {
	ContainerNo   string
	StatementDate time.Time
	CommissionPct decimal.Decimal
	Products      []ProductLineInput
	Expenses      []ExpenseRequest
}

// ProductLineInput is a single sold-product line as entered; grouping happens
// on save.
type ProductLineInput struct {
	Product   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// ExpenseRequest is a manually entered expense line.
type ExpenseRequest struct {
	Description string
	Amount      decimal.Decimal
}

// CashEntryRequest is the input for appending a cash book line.
type CashEntryRequest struct {
	EntryDate    time.Time
	Direction    core.CashDirection
	Amount       decimal.Decimal
	Description  string
	Counterparty string
	Method       core.PaymentMethod
}

// PartyRequest is the input for creating or updating a customer or supplier.
type PartyRequest struct {
	Name    string
	Phone   string
	Address string
}
