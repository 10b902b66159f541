package app

import (
	"context"
	"time"

	"tradebooks/internal/core"
)

type appService struct {
	users      core.UserService
	customers  core.CustomerService
	suppliers  core.SupplierService
	sales      core.SalesInvoiceService
	purchases  core.PurchaseInvoiceService
	freight    core.DualCurrencyInvoiceService
	payments   core.PaymentService
	containers core.ContainerStatementService
	cashbook   core.CashBookService
	reports    core.ReportingService
}

// Services bundles the core services an appService is built from.
type Services struct {
	Users      core.UserService
	Customers  core.CustomerService
	Suppliers  core.SupplierService
	Sales      core.SalesInvoiceService
	Purchases  core.PurchaseInvoiceService
	Freight    core.DualCurrencyInvoiceService
	Payments   core.PaymentService
	Containers core.ContainerStatementService
	CashBook   core.CashBookService
	Reports    core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(s Services) ApplicationService {
	return &appService{
		users:      s.Users,
		customers:  s.Customers,
		suppliers:  s.Suppliers,
		sales:      s.Sales,
		purchases:  s.Purchases,
		freight:    s.Freight,
		payments:   s.Payments,
		containers: s.Containers,
		cashbook:   s.CashBook,
		reports:    s.Reports,
	}
}

// AuthenticateUser verifies credentials and returns a session on success.
func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	u, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{UserID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// GetUser returns user profile by ID.
func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: u}, nil
}

func (s *appService) CreateSalesInvoice(ctx context.Context, req SalesInvoiceRequest, actorID int) (*SalesInvoiceResult, error) {
	inv, err := s.sales.Create(ctx, salesInput(req), actorID)
	if err != nil {
		return nil, err
	}
	return &SalesInvoiceResult{Invoice: inv}, nil
}

func (s *appService) GetSalesInvoice(ctx context.Context, id int) (*SalesInvoiceResult, error) {
	inv, err := s.sales.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SalesInvoiceResult{Invoice: inv}, nil
}

func (s *appService) ListSalesInvoices(ctx context.Context, status core.InvoiceStatus, customer string) (*SalesInvoiceListResult, error) {
	invoices, err := s.sales.List(ctx, status, customer)
	if err != nil {
		return nil, err
	}
	return &SalesInvoiceListResult{Invoices: invoices}, nil
}

func (s *appService) UpdateSalesInvoice(ctx context.Context, id int, req SalesInvoiceRequest, actorID int) (*SalesInvoiceResult, error) {
	inv, err := s.sales.Update(ctx, id, salesInput(req), actorID)
	if err != nil {
		return nil, err
	}
	return &SalesInvoiceResult{Invoice: inv}, nil
}

// DeleteSalesInvoice hard-deletes an invoice after the acting user re-enters
// an admin password.
func (s *appService) DeleteSalesInvoice(ctx context.Context, id, actorID int, password string) error {
	if err := s.users.VerifyAdminCredential(ctx, actorID, password); err != nil {
		return err
	}
	return s.sales.Delete(ctx, id)
}

func (s *appService) CreatePurchaseInvoice(ctx context.Context, req PurchaseInvoiceRequest, actorID int) (*PurchaseInvoiceResult, error) {
	inv, err := s.purchases.Create(ctx, purchaseInput(req), actorID)
	if err != nil {
		return nil, err
	}
	return &PurchaseInvoiceResult{Invoice: inv}, nil
}

func (s *appService) GetPurchaseInvoice(ctx context.Context, id int) (*PurchaseInvoiceResult, error) {
	inv, err := s.purchases.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PurchaseInvoiceResult{Invoice: inv}, nil
}

func (s *appService) ListPurchaseInvoices(ctx context.Context, status core.InvoiceStatus, supplier string) (*PurchaseInvoiceListResult, error) {
	invoices, err := s.purchases.List(ctx, status, supplier)
	if err != nil {
		return nil, err
	}
	return &PurchaseInvoiceListResult{Invoices: invoices}, nil
}

func (s *appService) UpdatePurchaseInvoice(ctx context.Context, id int, req PurchaseInvoiceRequest, actorID int) (*PurchaseInvoiceResult, error) {
	inv, err := s.purchases.Update(ctx, id, purchaseInput(req), actorID)
	if err != nil {
		return nil, err
	}
	return &PurchaseInvoiceResult{Invoice: inv}, nil
}

func (s *appService) DeletePurchaseInvoice(ctx context.Context, id, actorID int, password string) error {
	if err := s.users.VerifyAdminCredential(ctx, actorID, password); err != nil {
		return err
	}
	return s.purchases.Delete(ctx, id)
}

func (s *appService) CreateDualCurrencyInvoice(ctx context.Context, kind core.InvoiceKind, req DualCurrencyInvoiceRequest, actorID int) (*DualCurrencyInvoiceResult, error) {
	inv, err := s.freight.Create(ctx, kind, dualCurrencyInput(req), actorID)
	if err != nil {
		return nil, err
	}
	return &DualCurrencyInvoiceResult{Invoice: inv}, nil
}

func (s *appService) GetDualCurrencyInvoice(ctx context.Context, kind core.InvoiceKind, id int) (*DualCurrencyInvoiceResult, error) {
	inv, err := s.freight.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return &DualCurrencyInvoiceResult{Invoice: inv}, nil
}

func (s *appService) ListDualCurrencyInvoices(ctx context.Context, kind core.InvoiceKind, status core.InvoiceStatus, party string) (*DualCurrencyInvoiceListResult, error) {
	invoices, err := s.freight.List(ctx, kind, status, party)
	if err != nil {
		return nil, err
	}
	return &DualCurrencyInvoiceListResult{Kind: kind, Invoices: invoices}, nil
}

func (s *appService) UpdateDualCurrencyInvoice(ctx context.Context, kind core.InvoiceKind, id int, req DualCurrencyInvoiceRequest, actorID int) (*DualCurrencyInvoiceResult, error) {
	inv, err := s.freight.Update(ctx, kind, id, dualCurrencyInput(req), actorID)
	if err != nil {
		return nil, err
	}
	return &DualCurrencyInvoiceResult{Invoice: inv}, nil
}

func (s *appService) DeleteDualCurrencyInvoice(ctx context.Context, kind core.InvoiceKind, id, actorID int, password string) error {
	if err := s.users.VerifyAdminCredential(ctx, actorID, password); err != nil {
		return err
	}
	return s.freight.Delete(ctx, kind, id)
}

func (s *appService) RecordPayment(ctx context.Context, kind core.InvoiceKind, invoiceID int, req PaymentRequest, actorID int) (*PaymentResult, error) {
	p, err := s.payments.Apply(ctx, kind, invoiceID, core.PaymentInput{
		Amount:      req.Amount,
		Type:        req.Type,
		Method:      req.Method,
		Reference:   req.Reference,
		Notes:       req.Notes,
		PaymentDate: req.PaymentDate,
		ReceivedBy:  actorID,
	}, actorID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Payment: p}, nil
}

func (s *appService) ReversePayment(ctx context.Context, kind core.InvoiceKind, invoiceID, paymentID, actorID int, password string) error {
	return s.payments.Reverse(ctx, kind, invoiceID, paymentID, actorID, password)
}

func (s *appService) ListPayments(ctx context.Context, kind core.InvoiceKind, invoiceID int) (*PaymentListResult, error) {
	payments, err := s.payments.ListByInvoice(ctx, kind, invoiceID)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Payments: payments}, nil
}

func (s *appService) CustomerOutstanding(ctx context.Context, opts core.OutstandingOptions) (*core.OutstandingReport, error) {
	return s.reports.CustomerOutstanding(ctx, opts)
}

func (s *appService) SupplierOutstanding(ctx context.Context, opts core.OutstandingOptions) (*core.OutstandingReport, error) {
	return s.reports.SupplierOutstanding(ctx, opts)
}

func (s *appService) SaveContainerStatement(ctx context.Context, req ContainerStatementRequest, actorID int) (*ContainerStatementResult, error) {
	input := core.ContainerStatementInput{
		ContainerNo:   req.ContainerNo,
		StatementDate: req.StatementDate,
		CommissionPct: req.CommissionPct,
	}
	for _, p := range req.Products {
		input.Products = append(input.Products, core.ProductLine{
			Product: p.Product, Quantity: p.Quantity, UnitPrice: p.UnitPrice,
		})
	}
	for _, e := range req.Expenses {
		input.Expenses = append(input.Expenses, core.ExpenseLine{
			Description: e.Description, Amount: e.Amount,
		})
	}
	st, err := s.containers.Save(ctx, input, actorID)
	if err != nil {
		return nil, err
	}
	return &ContainerStatementResult{Statement: st}, nil
}

func (s *appService) GetContainerStatement(ctx context.Context, containerNo string) (*ContainerStatementResult, error) {
	st, err := s.containers.Get(ctx, containerNo)
	if err != nil {
		return nil, err
	}
	return &ContainerStatementResult{Statement: st}, nil
}

func (s *appService) ListContainerStatements(ctx context.Context) (*ContainerStatementListResult, error) {
	statements, err := s.containers.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ContainerStatementListResult{Statements: statements}, nil
}

func (s *appService) AddContainerExpense(ctx context.Context, containerNo string, req ExpenseRequest, actorID int) (*ContainerStatementResult, error) {
	st, err := s.containers.AddExpense(ctx, containerNo, req.Description, req.Amount, actorID)
	if err != nil {
		return nil, err
	}
	return &ContainerStatementResult{Statement: st}, nil
}

func (s *appService) RemoveContainerExpense(ctx context.Context, containerNo string, expenseID, actorID int) (*ContainerStatementResult, error) {
	st, err := s.containers.RemoveExpense(ctx, containerNo, expenseID, actorID)
	if err != nil {
		return nil, err
	}
	return &ContainerStatementResult{Statement: st}, nil
}

func (s *appService) DeleteContainerStatement(ctx context.Context, containerNo string) error {
	return s.containers.Delete(ctx, containerNo)
}

func (s *appService) AppendCashEntry(ctx context.Context, req CashEntryRequest, actorID int) (*CashEntryResult, error) {
	e, err := s.cashbook.Append(ctx, core.CashEntryInput{
		EntryDate:    req.EntryDate,
		Direction:    req.Direction,
		Amount:       req.Amount,
		Description:  req.Description,
		Counterparty: req.Counterparty,
		Method:       req.Method,
	}, actorID)
	if err != nil {
		return nil, err
	}
	return &CashEntryResult{Entry: e}, nil
}

func (s *appService) GetDayBook(ctx context.Context, date time.Time) (*core.DayBook, error) {
	return s.cashbook.DayBook(ctx, date)
}

func (s *appService) DeleteCashEntry(ctx context.Context, id int) error {
	return s.cashbook.Delete(ctx, id)
}

func (s *appService) CreateCustomer(ctx context.Context, req PartyRequest) (*CustomerResult, error) {
	c, err := s.customers.Create(ctx, partyInput(req))
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

func (s *appService) ListCustomers(ctx context.Context, search string) (*CustomerListResult, error) {
	customers, err := s.customers.List(ctx, search)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, id int, req PartyRequest) (*CustomerResult, error) {
	c, err := s.customers.Update(ctx, id, partyInput(req))
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

func (s *appService) DeactivateCustomer(ctx context.Context, id int) error {
	return s.customers.Deactivate(ctx, id)
}

func (s *appService) CreateSupplier(ctx context.Context, req PartyRequest) (*SupplierResult, error) {
	sup, err := s.suppliers.Create(ctx, partyInput(req))
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: sup}, nil
}

func (s *appService) ListSuppliers(ctx context.Context, search string) (*SupplierListResult, error) {
	suppliers, err := s.suppliers.List(ctx, search)
	if err != nil {
		return nil, err
	}
	return &SupplierListResult{Suppliers: suppliers}, nil
}

func (s *appService) UpdateSupplier(ctx context.Context, id int, req PartyRequest) (*SupplierResult, error) {
	sup, err := s.suppliers.Update(ctx, id, partyInput(req))
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: sup}, nil
}

func (s *appService) DeactivateSupplier(ctx context.Context, id int) error {
	return s.suppliers.Deactivate(ctx, id)
}

// ── request mapping helpers ───────────────────────────────────────────────────

func salesInput(req SalesInvoiceRequest) core.SalesInvoiceInput {
	return core.SalesInvoiceInput{
		CustomerName: req.CustomerName,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		UnitRate:     req.UnitRate,
		VATPct:       req.VATPct,
		Discount:     req.Discount,
		InvoiceDate:  req.InvoiceDate,
		DueDate:      req.DueDate,
	}
}

func purchaseInput(req PurchaseInvoiceRequest) core.PurchaseInvoiceInput {
	return core.PurchaseInvoiceInput{
		SupplierName:  req.SupplierName,
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		UnitRate:      req.UnitRate,
		Transport:     req.Transport,
		Freight:       req.Freight,
		EForm:         req.EForm,
		Miscellaneous: req.Miscellaneous,
		TransferRate:  req.TransferRate,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
	}
}

func dualCurrencyInput(req DualCurrencyInvoiceRequest) core.DualCurrencyInvoiceInput {
	return core.DualCurrencyInvoiceInput{
		PartyName:      req.PartyName,
		Agent:          req.Agent,
		ContainerNo:    req.ContainerNo,
		AmountPKR:      req.AmountPKR,
		ConversionRate: req.ConversionRate,
		InvoiceDate:    req.InvoiceDate,
		DueDate:        req.DueDate,
	}
}

func partyInput(req PartyRequest) core.PartyInput {
	return core.PartyInput{Name: req.Name, Phone: req.Phone, Address: req.Address}
}
