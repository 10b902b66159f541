package app

import (
	"context"
	"time"

	"tradebooks/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic. Implementations must contain
// no display logic of any kind.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// CreateSalesInvoice records a customer invoice, deriving all amounts and
	// the initial status from the entry fields.
	CreateSalesInvoice(ctx context.Context, req SalesInvoiceRequest, actorID int) (*SalesInvoiceResult, error)
	GetSalesInvoice(ctx context.Context, id int) (*SalesInvoiceResult, error)
	ListSalesInvoices(ctx context.Context, status core.InvoiceStatus, customer string) (*SalesInvoiceListResult, error)
	UpdateSalesInvoice(ctx context.Context, id int, req SalesInvoiceRequest, actorID int) (*SalesInvoiceResult, error)

	// DeleteSalesInvoice hard-deletes the invoice and its payment history.
	// The acting user must re-enter an admin password.
	DeleteSalesInvoice(ctx context.Context, id, actorID int, password string) error

	CreatePurchaseInvoice(ctx context.Context, req PurchaseInvoiceRequest, actorID int) (*PurchaseInvoiceResult, error)
	GetPurchaseInvoice(ctx context.Context, id int) (*PurchaseInvoiceResult, error)
	ListPurchaseInvoices(ctx context.Context, status core.InvoiceStatus, supplier string) (*PurchaseInvoiceListResult, error)
	UpdatePurchaseInvoice(ctx context.Context, id int, req PurchaseInvoiceRequest, actorID int) (*PurchaseInvoiceResult, error)
	DeletePurchaseInvoice(ctx context.Context, id, actorID int, password string) error

	// The dual-currency operations serve the four freight-type collections
	// (freight, transport, dubai_transport, dubai_clearance); kind selects one.
	CreateDualCurrencyInvoice(ctx context.Context, kind core.InvoiceKind, req DualCurrencyInvoiceRequest, actorID int) (*DualCurrencyInvoiceResult, error)
	GetDualCurrencyInvoice(ctx context.Context, kind core.InvoiceKind, id int) (*DualCurrencyInvoiceResult, error)
	ListDualCurrencyInvoices(ctx context.Context, kind core.InvoiceKind, status core.InvoiceStatus, party string) (*DualCurrencyInvoiceListResult, error)
	UpdateDualCurrencyInvoice(ctx context.Context, kind core.InvoiceKind, id int, req DualCurrencyInvoiceRequest, actorID int) (*DualCurrencyInvoiceResult, error)
	DeleteDualCurrencyInvoice(ctx context.Context, kind core.InvoiceKind, id, actorID int, password string) error

	// RecordPayment applies a payment against any invoice kind and updates the
	// parent's bookkeeping block atomically.
	RecordPayment(ctx context.Context, kind core.InvoiceKind, invoiceID int, req PaymentRequest, actorID int) (*PaymentResult, error)

	// ReversePayment deletes a payment and recomputes the parent invoice.
	// Requires the acting user to re-enter an admin password.
	ReversePayment(ctx context.Context, kind core.InvoiceKind, invoiceID, paymentID, actorID int, password string) error

	ListPayments(ctx context.Context, kind core.InvoiceKind, invoiceID int) (*PaymentListResult, error)

	// CustomerOutstanding rolls up receivables by customer or product name.
	CustomerOutstanding(ctx context.Context, opts core.OutstandingOptions) (*core.OutstandingReport, error)

	// SupplierOutstanding rolls up payables by supplier name.
	SupplierOutstanding(ctx context.Context, opts core.OutstandingOptions) (*core.OutstandingReport, error)

	// SaveContainerStatement creates or replaces a container statement,
	// regrouping product lines and re-deriving the settlement.
	SaveContainerStatement(ctx context.Context, req ContainerStatementRequest, actorID int) (*ContainerStatementResult, error)
	GetContainerStatement(ctx context.Context, containerNo string) (*ContainerStatementResult, error)
	ListContainerStatements(ctx context.Context) (*ContainerStatementListResult, error)
	AddContainerExpense(ctx context.Context, containerNo string, req ExpenseRequest, actorID int) (*ContainerStatementResult, error)
	RemoveContainerExpense(ctx context.Context, containerNo string, expenseID, actorID int) (*ContainerStatementResult, error)
	DeleteContainerStatement(ctx context.Context, containerNo string) error

	AppendCashEntry(ctx context.Context, req CashEntryRequest, actorID int) (*CashEntryResult, error)
	GetDayBook(ctx context.Context, date time.Time) (*core.DayBook, error)
	DeleteCashEntry(ctx context.Context, id int) error

	CreateCustomer(ctx context.Context, req PartyRequest) (*CustomerResult, error)
	ListCustomers(ctx context.Context, search string) (*CustomerListResult, error)
	UpdateCustomer(ctx context.Context, id int, req PartyRequest) (*CustomerResult, error)
	DeactivateCustomer(ctx context.Context, id int) error

	CreateSupplier(ctx context.Context, req PartyRequest) (*SupplierResult, error)
	ListSuppliers(ctx context.Context, search string) (*SupplierListResult, error)
	UpdateSupplier(ctx context.Context, id int, req PartyRequest) (*SupplierResult, error)
	DeactivateSupplier(ctx context.Context, id int) error
}
