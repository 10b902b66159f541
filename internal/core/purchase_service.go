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

// PurchaseInvoiceInput is the entry-level portion of a purchase record.
// TransferRate is PKR per AED.
type PurchaseInvoiceInput struct {
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

type PurchaseInvoiceService interface {
	Create(ctx context.Context, input PurchaseInvoiceInput, actorID int) (*PurchaseInvoice, error)
	Get(ctx context.Context, id int) (*PurchaseInvoice, error)
	List(ctx context.Context, status InvoiceStatus, supplier string) ([]PurchaseInvoice, error)
	Update(ctx context.Context, id int, input PurchaseInvoiceInput, actorID int) (*PurchaseInvoice, error)
	Delete(ctx context.Context, id int) error
}

type purchaseInvoiceService struct {
	pool *pgxpool.Pool
}

// NewPurchaseInvoiceService constructs a PurchaseInvoiceService backed by PostgreSQL.
func NewPurchaseInvoiceService(pool *pgxpool.Pool) PurchaseInvoiceService {
	return &purchaseInvoiceService{pool: pool}
}

const purchaseInvoiceColumns = `
	id, supplier_name, product_name, quantity, unit_rate, transport, freight,
	e_form, miscellaneous, transfer_rate, subtotal_pkr, total_aed,
	final_amount, received_amount, outstanding_amount,
	status, invoice_date, due_date, last_payment_date,
	created_by, updated_by, version, created_at, updated_at`

func scanPurchaseInvoice(row pgx.Row) (*PurchaseInvoice, error) {
	inv := &PurchaseInvoice{}
	err := row.Scan(
		&inv.ID, &inv.SupplierName, &inv.ProductName, &inv.Quantity, &inv.UnitRate,
		&inv.Transport, &inv.Freight, &inv.EForm, &inv.Miscellaneous, &inv.TransferRate,
		&inv.SubtotalPKR, &inv.TotalAED,
		&inv.FinalAmount, &inv.ReceivedAmount, &inv.OutstandingAmount,
		&inv.Status, &inv.InvoiceDate, &inv.DueDate, &inv.LastPaymentDate,
		&inv.CreatedBy, &inv.UpdatedBy, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *purchaseInvoiceService) Create(ctx context.Context, input PurchaseInvoiceInput, actorID int) (*PurchaseInvoice, error) {
	if input.SupplierName == "" {
		return nil, NewValidationError("supplier_name", "must not be empty")
	}
	totals := ComputePurchaseTotal(input.Quantity, input.UnitRate, input.Transport,
		input.Freight, input.EForm, input.Miscellaneous, input.TransferRate)
	status := DeriveStatus(totals.TotalPKR, decimal.Zero, input.DueDate, time.Now())

	inv, err := scanPurchaseInvoice(s.pool.QueryRow(ctx, `
		INSERT INTO purchase_invoices
		       (supplier_name, product_name, quantity, unit_rate, transport, freight,
		        e_form, miscellaneous, transfer_rate, subtotal_pkr, total_aed,
		        final_amount, received_amount, outstanding_amount,
		        status, invoice_date, due_date, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $12, $13, $14, $15, $16, $16)
		RETURNING`+purchaseInvoiceColumns,
		input.SupplierName, input.ProductName, input.Quantity, input.UnitRate,
		input.Transport, input.Freight, input.EForm, input.Miscellaneous,
		input.TransferRate, totals.SubtotalPKR, totals.TotalAED, totals.TotalPKR,
		status, input.InvoiceDate, input.DueDate, actorID,
	))
	if err != nil {
		return nil, fmt.Errorf("create purchase invoice: %w", err)
	}
	return inv, nil
}

func (s *purchaseInvoiceService) Get(ctx context.Context, id int) (*PurchaseInvoice, error) {
	inv, err := scanPurchaseInvoice(s.pool.QueryRow(ctx,
		"SELECT"+purchaseInvoiceColumns+" FROM purchase_invoices WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase invoice %d not found", id)
		}
		return nil, fmt.Errorf("get purchase invoice %d: %w", id, err)
	}
	return inv, nil
}

func (s *purchaseInvoiceService) List(ctx context.Context, status InvoiceStatus, supplier string) ([]PurchaseInvoice, error) {
	q := "SELECT" + purchaseInvoiceColumns + " FROM purchase_invoices WHERE 1=1"
	var args []any
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if supplier != "" {
		args = append(args, "%"+supplier+"%")
		q += fmt.Sprintf(" AND supplier_name ILIKE $%d", len(args))
	}
	q += " ORDER BY invoice_date DESC, id DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase invoices: %w", err)
	}
	defer rows.Close()

	var out []PurchaseInvoice
	for rows.Next() {
		inv, err := scanPurchaseInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase invoice: %w", err)
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (s *purchaseInvoiceService) Update(ctx context.Context, id int, input PurchaseInvoiceInput, actorID int) (*PurchaseInvoice, error) {
	if input.SupplierName == "" {
		return nil, NewValidationError("supplier_name", "must not be empty")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var received decimal.Decimal
	var version int
	if err := tx.QueryRow(ctx,
		"SELECT received_amount, version FROM purchase_invoices WHERE id = $1 FOR UPDATE", id,
	).Scan(&received, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase invoice %d not found", id)
		}
		return nil, fmt.Errorf("fetch purchase invoice %d: %w", id, err)
	}

	totals := ComputePurchaseTotal(input.Quantity, input.UnitRate, input.Transport,
		input.Freight, input.EForm, input.Miscellaneous, input.TransferRate)
	if received.GreaterThan(totals.TotalPKR) {
		return nil, NewValidationError("final_amount",
			fmt.Sprintf("cannot drop below received amount %s", received.StringFixed(2)))
	}
	status := DeriveStatus(totals.TotalPKR, received, input.DueDate, time.Now())

	tag, err := tx.Exec(ctx, `
		UPDATE purchase_invoices
		SET supplier_name = $1, product_name = $2, quantity = $3, unit_rate = $4,
		    transport = $5, freight = $6, e_form = $7, miscellaneous = $8,
		    transfer_rate = $9, subtotal_pkr = $10, total_aed = $11,
		    final_amount = $12, outstanding_amount = $12 - received_amount,
		    status = $13, invoice_date = $14, due_date = $15,
		    updated_by = $16, version = version + 1, updated_at = NOW()
		WHERE id = $17 AND version = $18`,
		input.SupplierName, input.ProductName, input.Quantity, input.UnitRate,
		input.Transport, input.Freight, input.EForm, input.Miscellaneous,
		input.TransferRate, totals.SubtotalPKR, totals.TotalAED, totals.TotalPKR,
		status, input.InvoiceDate, input.DueDate, actorID, id, version,
	)
	if err != nil {
		return nil, fmt.Errorf("update purchase invoice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrVersionConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase invoice update: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *purchaseInvoiceService) Delete(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM payments WHERE invoice_kind = $1 AND invoice_id = $2",
		KindPurchase, id,
	); err != nil {
		return fmt.Errorf("delete payments for purchase invoice %d: %w", id, err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM purchase_invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete purchase invoice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("purchase invoice %d not found", id)
	}
	return tx.Commit(ctx)
}
