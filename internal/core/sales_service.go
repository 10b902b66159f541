package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SalesInvoiceInput is the entry-level portion of a sales invoice. Derived
// amounts are always recomputed from these fields — on create and on every
// edit — so stale derived values cannot be persisted.
type SalesInvoiceInput struct {
	CustomerName string
	ProductName  string
	Quantity     decimal.Decimal
	UnitRate     decimal.Decimal
	VATPct       decimal.Decimal
	Discount     decimal.Decimal
	InvoiceDate  time.Time
	DueDate      time.Time
}

type SalesInvoiceService interface {
	Create(ctx context.Context, input SalesInvoiceInput, actorID int) (*SalesInvoice, error)
	Get(ctx context.Context, id int) (*SalesInvoice, error)
	List(ctx context.Context, status InvoiceStatus, customer string) ([]SalesInvoice, error)
	Update(ctx context.Context, id int, input SalesInvoiceInput, actorID int) (*SalesInvoice, error)

	// Delete hard-deletes the invoice and its payment history. Callers must
	// verify an admin credential first (UserService.VerifyAdminCredential).
	Delete(ctx context.Context, id int) error
}

type salesInvoiceService struct {
	pool *pgxpool.Pool
}

// NewSalesInvoiceService constructs a SalesInvoiceService backed by PostgreSQL.
func NewSalesInvoiceService(pool *pgxpool.Pool) SalesInvoiceService {
	return &salesInvoiceService{pool: pool}
}

const salesInvoiceColumns = `
	id, customer_name, product_name, quantity, unit_rate, vat_pct, discount,
	subtotal, vat_amount, final_amount, received_amount, outstanding_amount,
	status, invoice_date, due_date, last_payment_date,
	created_by, updated_by, version, created_at, updated_at`

func scanSalesInvoice(row pgx.Row) (*SalesInvoice, error) {
	inv := &SalesInvoice{}
	err := row.Scan(
		&inv.ID, &inv.CustomerName, &inv.ProductName, &inv.Quantity, &inv.UnitRate,
		&inv.VATPct, &inv.Discount, &inv.Subtotal, &inv.VATAmount,
		&inv.FinalAmount, &inv.ReceivedAmount, &inv.OutstandingAmount,
		&inv.Status, &inv.InvoiceDate, &inv.DueDate, &inv.LastPaymentDate,
		&inv.CreatedBy, &inv.UpdatedBy, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *salesInvoiceService) Create(ctx context.Context, input SalesInvoiceInput, actorID int) (*SalesInvoice, error) {
	if input.CustomerName == "" {
		return nil, NewValidationError("customer_name", "must not be empty")
	}
	amounts := ComputeSalesAmount(input.Quantity, input.UnitRate, input.VATPct, input.Discount)
	status := DeriveStatus(amounts.FinalAmount, decimal.Zero, input.DueDate, time.Now())

	inv, err := scanSalesInvoice(s.pool.QueryRow(ctx, `
		INSERT INTO sales_invoices
		       (customer_name, product_name, quantity, unit_rate, vat_pct, discount,
		        subtotal, vat_amount, final_amount, received_amount, outstanding_amount,
		        status, invoice_date, due_date, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $9, $10, $11, $12, $13, $13)
		RETURNING`+salesInvoiceColumns,
		input.CustomerName, input.ProductName, input.Quantity, input.UnitRate,
		input.VATPct, input.Discount, amounts.Subtotal, amounts.VATAmount,
		amounts.FinalAmount, status, input.InvoiceDate, input.DueDate, actorID,
	))
	if err != nil {
		return nil, fmt.Errorf("create sales invoice: %w", err)
	}
	return inv, nil
}

func (s *salesInvoiceService) Get(ctx context.Context, id int) (*SalesInvoice, error) {
	inv, err := scanSalesInvoice(s.pool.QueryRow(ctx,
		"SELECT"+salesInvoiceColumns+" FROM sales_invoices WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sales invoice %d not found", id)
		}
		return nil, fmt.Errorf("get sales invoice %d: %w", id, err)
	}
	return inv, nil
}

func (s *salesInvoiceService) List(ctx context.Context, status InvoiceStatus, customer string) ([]SalesInvoice, error) {
	q := "SELECT" + salesInvoiceColumns + " FROM sales_invoices WHERE 1=1"
	var args []any
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if customer != "" {
		args = append(args, "%"+customer+"%")
		q += fmt.Sprintf(" AND customer_name ILIKE $%d", len(args))
	}
	q += " ORDER BY invoice_date DESC, id DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales invoices: %w", err)
	}
	defer rows.Close()

	var out []SalesInvoice
	for rows.Next() {
		inv, err := scanSalesInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales invoice: %w", err)
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

// Update re-runs the amount calculator over the new inputs and re-derives
// status against the already-received total. The version stamp guards against
// a concurrent payment mutation landing between read and write.
func (s *salesInvoiceService) Update(ctx context.Context, id int, input SalesInvoiceInput, actorID int) (*SalesInvoice, error) {
	if input.CustomerName == "" {
		return nil, NewValidationError("customer_name", "must not be empty")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var received decimal.Decimal
	var version int
	if err := tx.QueryRow(ctx,
		"SELECT received_amount, version FROM sales_invoices WHERE id = $1 FOR UPDATE", id,
	).Scan(&received, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sales invoice %d not found", id)
		}
		return nil, fmt.Errorf("fetch sales invoice %d: %w", id, err)
	}

	amounts := ComputeSalesAmount(input.Quantity, input.UnitRate, input.VATPct, input.Discount)
	if received.GreaterThan(amounts.FinalAmount) {
		return nil, NewValidationError("final_amount",
			fmt.Sprintf("cannot drop below received amount %s", received.StringFixed(2)))
	}
	status := DeriveStatus(amounts.FinalAmount, received, input.DueDate, time.Now())

	tag, err := tx.Exec(ctx, `
		UPDATE sales_invoices
		SET customer_name = $1, product_name = $2, quantity = $3, unit_rate = $4,
		    vat_pct = $5, discount = $6, subtotal = $7, vat_amount = $8,
		    final_amount = $9, outstanding_amount = $9 - received_amount,
		    status = $10, invoice_date = $11, due_date = $12,
		    updated_by = $13, version = version + 1, updated_at = NOW()
		WHERE id = $14 AND version = $15`,
		input.CustomerName, input.ProductName, input.Quantity, input.UnitRate,
		input.VATPct, input.Discount, amounts.Subtotal, amounts.VATAmount,
		amounts.FinalAmount, status, input.InvoiceDate, input.DueDate,
		actorID, id, version,
	)
	if err != nil {
		return nil, fmt.Errorf("update sales invoice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrVersionConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sales invoice update: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *salesInvoiceService) Delete(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM payments WHERE invoice_kind = $1 AND invoice_id = $2",
		KindSales, id,
	); err != nil {
		return fmt.Errorf("delete payments for sales invoice %d: %w", id, err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM sales_invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete sales invoice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sales invoice %d not found", id)
	}
	return tx.Commit(ctx)
}
