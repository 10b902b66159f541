package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"tradebooks/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE payments, sales_invoices, purchase_invoices, dual_currency_invoices,
		               container_expenses, container_product_lines, container_statements,
		               cash_entries, customers, suppliers, users
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

// seedUser inserts a user with a real bcrypt hash and returns its ID.
func seedUser(t *testing.T, pool *pgxpool.Pool, username, password string, role core.UserRole) int {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	var id int
	err = pool.QueryRow(context.Background(), `
		INSERT INTO users (username, password_hash, role, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id`,
		username, string(hash), role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return id
}

func TestPaymentService_ApplyAndSettle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)

	invoices := core.NewSalesInvoiceService(pool)
	payments := core.NewPaymentService(pool, core.NewUserService(pool))

	inv, err := invoices.Create(ctx, core.SalesInvoiceInput{
		CustomerName: "Alpha Traders",
		ProductName:  "Rice",
		Quantity:     d("10"),
		UnitRate:     d("100"),
		InvoiceDate:  time.Now(),
		DueDate:      time.Now().AddDate(0, 1, 0),
	}, adminID)
	if err != nil {
		t.Fatalf("Create invoice failed: %v", err)
	}
	if inv.Status != core.StatusUnpaid {
		t.Fatalf("Expected new invoice unpaid, got %s", inv.Status)
	}

	// Partial payment moves to partially_paid
	if _, err := payments.Apply(ctx, core.KindSales, inv.ID, core.PaymentInput{
		Amount: d("400"), Type: core.PaymentPartial, Method: core.MethodCash,
	}, adminID); err != nil {
		t.Fatalf("First payment failed: %v", err)
	}

	inv, err = invoices.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Get invoice failed: %v", err)
	}
	if inv.Status != core.StatusPartiallyPaid {
		t.Errorf("Expected partially_paid, got %s", inv.Status)
	}
	if !inv.OutstandingAmount.Equal(d("600")) {
		t.Errorf("Expected outstanding 600, got %s", inv.OutstandingAmount)
	}

	// Settling payment moves to paid
	if _, err := payments.Apply(ctx, core.KindSales, inv.ID, core.PaymentInput{
		Amount: d("600"), Type: core.PaymentFull, Method: core.MethodBankTransfer,
	}, adminID); err != nil {
		t.Fatalf("Settling payment failed: %v", err)
	}

	inv, _ = invoices.Get(ctx, inv.ID)
	if inv.Status != core.StatusPaid {
		t.Errorf("Expected paid, got %s", inv.Status)
	}
	if !inv.OutstandingAmount.IsZero() {
		t.Errorf("Expected zero outstanding, got %s", inv.OutstandingAmount)
	}

	// A settled invoice rejects further payments
	_, err = payments.Apply(ctx, core.KindSales, inv.ID, core.PaymentInput{
		Amount: d("1"), Type: core.PaymentPartial, Method: core.MethodCash,
	}, adminID)
	if !errors.Is(err, core.ErrAlreadySettled) {
		t.Errorf("Expected ErrAlreadySettled, got %v", err)
	}
}

func TestPaymentService_OverpaymentRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)

	invoices := core.NewSalesInvoiceService(pool)
	payments := core.NewPaymentService(pool, core.NewUserService(pool))

	inv, err := invoices.Create(ctx, core.SalesInvoiceInput{
		CustomerName: "Beta & Co",
		Quantity:     d("1"),
		UnitRate:     d("500"),
		InvoiceDate:  time.Now(),
	}, adminID)
	if err != nil {
		t.Fatalf("Create invoice failed: %v", err)
	}

	_, err = payments.Apply(ctx, core.KindSales, inv.ID, core.PaymentInput{
		Amount: d("500.01"), Type: core.PaymentFull, Method: core.MethodCash,
	}, adminID)
	if !errors.Is(err, core.ErrOverpayment) {
		t.Fatalf("Expected ErrOverpayment, got %v", err)
	}

	// Nothing was recorded and the invoice is untouched
	rows, err := payments.ListByInvoice(ctx, core.KindSales, inv.ID)
	if err != nil {
		t.Fatalf("ListByInvoice failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no payments after rejection, got %d", len(rows))
	}
	inv, _ = invoices.Get(ctx, inv.ID)
	if !inv.ReceivedAmount.IsZero() {
		t.Errorf("Expected zero received after rejection, got %s", inv.ReceivedAmount)
	}
}

func TestPaymentService_ReverseRequiresAdminCredential(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)
	staffID := seedUser(t, pool, "clerk", "clerk-pass", core.RoleStaff)

	invoices := core.NewSalesInvoiceService(pool)
	payments := core.NewPaymentService(pool, core.NewUserService(pool))

	inv, err := invoices.Create(ctx, core.SalesInvoiceInput{
		CustomerName: "Gamma LLC",
		Quantity:     d("2"),
		UnitRate:     d("250"),
		InvoiceDate:  time.Now(),
	}, adminID)
	if err != nil {
		t.Fatalf("Create invoice failed: %v", err)
	}

	p, err := payments.Apply(ctx, core.KindSales, inv.ID, core.PaymentInput{
		Amount: d("500"), Type: core.PaymentFull, Method: core.MethodCheque,
	}, staffID)
	if err != nil {
		t.Fatalf("Apply payment failed: %v", err)
	}

	// Staff cannot reverse, wrong password cannot reverse
	if err := payments.Reverse(ctx, core.KindSales, inv.ID, p.ID, staffID, "clerk-pass"); !errors.Is(err, core.ErrUnauthorizedReversal) {
		t.Errorf("Expected ErrUnauthorizedReversal for staff, got %v", err)
	}
	if err := payments.Reverse(ctx, core.KindSales, inv.ID, p.ID, adminID, "wrong"); !errors.Is(err, core.ErrUnauthorizedReversal) {
		t.Errorf("Expected ErrUnauthorizedReversal for wrong password, got %v", err)
	}

	// Admin with the right password reverses and the invoice is recomputed
	if err := payments.Reverse(ctx, core.KindSales, inv.ID, p.ID, adminID, "admin-pass"); err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	inv, _ = invoices.Get(ctx, inv.ID)
	if !inv.ReceivedAmount.IsZero() {
		t.Errorf("Expected zero received after reversal, got %s", inv.ReceivedAmount)
	}
	if !inv.OutstandingAmount.Equal(inv.FinalAmount) {
		t.Errorf("Expected outstanding to equal final after reversal")
	}
	if inv.Status != core.StatusUnpaid {
		t.Errorf("Expected unpaid after reversal, got %s", inv.Status)
	}
	if inv.LastPaymentDate != nil {
		t.Errorf("Expected last payment date cleared, got %v", inv.LastPaymentDate)
	}
}

func TestPaymentService_DualCurrencyInvoicePaysInPKR(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)

	freight := core.NewDualCurrencyInvoiceService(pool)
	payments := core.NewPaymentService(pool, core.NewUserService(pool))

	inv, err := freight.Create(ctx, core.KindDubaiClearance, core.DualCurrencyInvoiceInput{
		PartyName:      "Port Agent",
		ContainerNo:    "MSKU1234567",
		AmountPKR:      d("76000"),
		ConversionRate: d("76"),
		InvoiceDate:    time.Now(),
	}, adminID)
	if err != nil {
		t.Fatalf("Create freight invoice failed: %v", err)
	}
	if !inv.AmountAED.Equal(d("1000")) {
		t.Errorf("Expected AED 1000, got %s", inv.AmountAED)
	}
	if !inv.FinalAmount.Equal(d("76000")) {
		t.Errorf("Expected final amount to track PKR, got %s", inv.FinalAmount)
	}

	if _, err := payments.Apply(ctx, core.KindDubaiClearance, inv.ID, core.PaymentInput{
		Amount: d("76000"), Type: core.PaymentFull, Method: core.MethodBankTransfer,
	}, adminID); err != nil {
		t.Fatalf("Payment failed: %v", err)
	}

	inv, err = freight.Get(ctx, core.KindDubaiClearance, inv.ID)
	if err != nil {
		t.Fatalf("Get freight invoice failed: %v", err)
	}
	if inv.Status != core.StatusPaid {
		t.Errorf("Expected paid, got %s", inv.Status)
	}
}
