package core_test

import (
	"context"
	"testing"
	"time"

	"tradebooks/internal/core"
)

func TestReportingService_CustomerOutstanding(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)

	sales := core.NewSalesInvoiceService(pool)
	freight := core.NewDualCurrencyInvoiceService(pool)
	payments := core.NewPaymentService(pool, core.NewUserService(pool))
	reports := core.NewReportingService(pool)

	now := time.Now()
	due := now.AddDate(0, 1, 0)

	// Two sales invoices for the same customer, one freight invoice for another
	invA1, err := sales.Create(ctx, core.SalesInvoiceInput{
		CustomerName: "Alpha Traders", Quantity: d("1"), UnitRate: d("1000"),
		InvoiceDate: now, DueDate: due,
	}, adminID)
	if err != nil {
		t.Fatalf("Create invoice failed: %v", err)
	}
	if _, err := sales.Create(ctx, core.SalesInvoiceInput{
		CustomerName: "Alpha Traders", Quantity: d("1"), UnitRate: d("500"),
		InvoiceDate: now, DueDate: due,
	}, adminID); err != nil {
		t.Fatalf("Create invoice failed: %v", err)
	}
	if _, err := freight.Create(ctx, core.KindFreight, core.DualCurrencyInvoiceInput{
		PartyName: "Beta Shipping", AmountPKR: d("2000"), ConversionRate: d("80"),
		InvoiceDate: now, DueDate: due,
	}, adminID); err != nil {
		t.Fatalf("Create freight invoice failed: %v", err)
	}

	// Pay off the first Alpha invoice in full
	if _, err := payments.Apply(ctx, core.KindSales, invA1.ID, core.PaymentInput{
		Amount: d("1000"), Type: core.PaymentFull, Method: core.MethodCash,
	}, adminID); err != nil {
		t.Fatalf("Payment failed: %v", err)
	}

	report, err := reports.CustomerOutstanding(ctx, core.OutstandingOptions{
		GroupBy: core.GroupByCustomer,
	})
	if err != nil {
		t.Fatalf("CustomerOutstanding failed: %v", err)
	}

	if report.Summary.GroupCount != 2 {
		t.Fatalf("Expected 2 groups, got %d", report.Summary.GroupCount)
	}
	rows := make(map[string]core.OutstandingRow)
	for _, r := range report.Rows {
		rows[r.Name] = r
	}

	alpha := rows["Alpha Traders"]
	// Paid invoices still count toward totals and count
	if alpha.InvoiceCount != 2 {
		t.Errorf("Expected Alpha invoice count 2, got %d", alpha.InvoiceCount)
	}
	if !alpha.TotalAmount.Equal(d("1500")) {
		t.Errorf("Expected Alpha total 1500, got %s", alpha.TotalAmount)
	}
	if !alpha.TotalOutstanding.Equal(d("500")) {
		t.Errorf("Expected Alpha outstanding 500, got %s", alpha.TotalOutstanding)
	}
	if alpha.Status != core.StatusPartiallyPaid {
		t.Errorf("Expected Alpha group partially_paid, got %s", alpha.Status)
	}

	beta := rows["Beta Shipping"]
	if !beta.TotalOutstanding.Equal(d("2000")) {
		t.Errorf("Expected Beta outstanding 2000, got %s", beta.TotalOutstanding)
	}

	// Summary spans the full result set regardless of paging
	paged, err := reports.CustomerOutstanding(ctx, core.OutstandingOptions{
		GroupBy: core.GroupByCustomer, Limit: 1, Page: 1,
	})
	if err != nil {
		t.Fatalf("Paged report failed: %v", err)
	}
	if len(paged.Rows) != 1 {
		t.Errorf("Expected 1 row on page, got %d", len(paged.Rows))
	}
	if !paged.Summary.TotalOutstanding.Equal(report.Summary.TotalOutstanding) {
		t.Errorf("Summary changed under pagination: %s vs %s",
			paged.Summary.TotalOutstanding, report.Summary.TotalOutstanding)
	}
}

func TestReportingService_OverdueDerivedAtReadTime(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)
	reports := core.NewReportingService(pool)

	// Insert directly with a past due date but a stale "unpaid" status, as if
	// the row was written before the due date passed.
	_, err := pool.Exec(ctx, `
		INSERT INTO sales_invoices
		       (customer_name, quantity, unit_rate, subtotal, vat_amount,
		        final_amount, received_amount, outstanding_amount,
		        status, invoice_date, due_date, created_by, updated_by)
		VALUES ('Stale Corp', 1, 100, 100, 0, 100, 0, 100,
		        'unpaid', NOW() - INTERVAL '60 days', NOW() - INTERVAL '30 days', $1, $1)`,
		adminID)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	report, err := reports.CustomerOutstanding(ctx, core.OutstandingOptions{
		GroupBy: core.GroupByCustomer,
	})
	if err != nil {
		t.Fatalf("CustomerOutstanding failed: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(report.Rows))
	}
	if report.Rows[0].Status != core.StatusOverdue {
		t.Errorf("Expected overdue derived at read time, got %s", report.Rows[0].Status)
	}
}

func TestReportingService_SupplierOutstanding(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	adminID := seedUser(t, pool, "admin", "admin-pass", core.RoleAdmin)

	purchases := core.NewPurchaseInvoiceService(pool)
	reports := core.NewReportingService(pool)

	if _, err := purchases.Create(ctx, core.PurchaseInvoiceInput{
		SupplierName: "Delta Imports",
		Quantity:     d("10"),
		UnitRate:     d("50"),
		Transport:    d("100"),
		TransferRate: d("75"),
		InvoiceDate:  time.Now(),
		DueDate:      time.Now().AddDate(0, 1, 0),
	}, adminID); err != nil {
		t.Fatalf("Create purchase failed: %v", err)
	}

	report, err := reports.SupplierOutstanding(ctx, core.OutstandingOptions{
		GroupBy: core.GroupByCustomer,
	})
	if err != nil {
		t.Fatalf("SupplierOutstanding failed: %v", err)
	}
	if len(report.Rows) != 1 || report.Rows[0].Name != "Delta Imports" {
		t.Fatalf("Expected one Delta Imports group, got %+v", report.Rows)
	}
	// 10×50 + 100 transport = 600 PKR landed total
	if !report.Rows[0].TotalOutstanding.Equal(d("600")) {
		t.Errorf("Expected outstanding 600, got %s", report.Rows[0].TotalOutstanding)
	}
}
