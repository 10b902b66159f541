package app

import "tradebooks/internal/core"

// UserSession is returned by AuthenticateUser.
type UserSession struct {
	UserID   int
	Username string
	Role     core.UserRole
}

// UserResult is returned by GetUser.
type UserResult struct {
	User *core.User
}

// SalesInvoiceResult is returned by sales invoice operations.
type SalesInvoiceResult struct {
	Invoice *core.SalesInvoice
}

// SalesInvoiceListResult is returned by ListSalesInvoices.
type SalesInvoiceListResult struct {
	Invoices []core.SalesInvoice
}

// PurchaseInvoiceResult is returned by purchase invoice operations.
type PurchaseInvoiceResult struct {
	Invoice *core.PurchaseInvoice
}

// PurchaseInvoiceListResult is returned by ListPurchaseInvoices.
type PurchaseInvoiceListResult struct {
	Invoices []core.PurchaseInvoice
}

// DualCurrencyInvoiceResult is returned by freight-type invoice operations.
type DualCurrencyInvoiceResult struct {
	Invoice *core.DualCurrencyInvoice
}

// DualCurrencyInvoiceListResult is returned by ListDualCurrencyInvoices.
type DualCurrencyInvoiceListResult struct {
	Kind     core.InvoiceKind
	Invoices []core.DualCurrencyInvoice
}

// PaymentResult is returned by RecordPayment.
type PaymentResult struct {
	Payment *core.Payment
}

// PaymentListResult is returned by ListPayments.
type PaymentListResult struct {
	Payments []core.Payment
}

// ContainerStatementResult is returned by container statement operations.
type ContainerStatementResult struct {
	Statement *core.ContainerStatement
}

// ContainerStatementListResult is returned by ListContainerStatements.
type ContainerStatementListResult struct {
	Statements []core.ContainerStatement
}

// CashEntryResult is returned by AppendCashEntry.
type CashEntryResult struct {
	Entry *core.CashEntry
}

// CustomerResult is returned by customer operations.
type CustomerResult struct {
	Customer *core.Customer
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}

// SupplierResult is returned by supplier operations.
type SupplierResult struct {
	Supplier *core.Supplier
}

// SupplierListResult is returned by ListSuppliers.
type SupplierListResult struct {
	Suppliers []core.Supplier
}
