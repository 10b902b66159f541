package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportingService builds the outstanding rollups. Scans re-derive each
// invoice's status against the current clock before aggregating, so an
// invoice that passed its due date since the last write still reports as
// overdue.
type ReportingService interface {
	// CustomerOutstanding rolls up the receivable side: sales invoices plus
	// every dual-currency invoice, grouped by customer or product name.
	CustomerOutstanding(ctx context.Context, opts OutstandingOptions) (*OutstandingReport, error)

	// SupplierOutstanding rolls up the payable side from purchase invoices.
	SupplierOutstanding(ctx context.Context, opts OutstandingOptions) (*OutstandingReport, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by PostgreSQL.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

const receivableSummaryQuery = `
	SELECT 'sales' AS kind, id, customer_name, COALESCE(product_name, ''),
	       final_amount, received_amount, outstanding_amount,
	       invoice_date, due_date, last_payment_date
	FROM sales_invoices
	UNION ALL
	SELECT kind, id, party_name, '',
	       final_amount, received_amount, outstanding_amount,
	       invoice_date, due_date, last_payment_date
	FROM dual_currency_invoices`

const payableSummaryQuery = `
	SELECT 'purchase' AS kind, id, supplier_name, COALESCE(product_name, ''),
	       final_amount, received_amount, outstanding_amount,
	       invoice_date, due_date, last_payment_date
	FROM purchase_invoices`

func (s *reportingService) CustomerOutstanding(ctx context.Context, opts OutstandingOptions) (*OutstandingReport, error) {
	invoices, err := s.scanSummaries(ctx, receivableSummaryQuery)
	if err != nil {
		return nil, fmt.Errorf("load receivable invoices: %w", err)
	}
	return AggregateOutstanding(invoices, opts)
}

func (s *reportingService) SupplierOutstanding(ctx context.Context, opts OutstandingOptions) (*OutstandingReport, error) {
	invoices, err := s.scanSummaries(ctx, payableSummaryQuery)
	if err != nil {
		return nil, fmt.Errorf("load payable invoices: %w", err)
	}
	return AggregateOutstanding(invoices, opts)
}

func (s *reportingService) scanSummaries(ctx context.Context, query string) ([]InvoiceSummary, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var out []InvoiceSummary
	for rows.Next() {
		inv, err := scanSummary(rows, now)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanSummary(row pgx.Row, now time.Time) (InvoiceSummary, error) {
	var inv InvoiceSummary
	var invoiceDate time.Time
	err := row.Scan(&inv.Kind, &inv.ID, &inv.CustomerName, &inv.ProductName,
		&inv.FinalAmount, &inv.ReceivedAmount, &inv.OutstandingAmount,
		&invoiceDate, &inv.DueDate, &inv.LastPaymentDate)
	if err != nil {
		return inv, fmt.Errorf("scan invoice summary: %w", err)
	}
	inv.Status = DeriveStatus(inv.FinalAmount, inv.ReceivedAmount, inv.DueDate, now)
	return inv, nil
}
