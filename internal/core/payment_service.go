package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentService is the ledger over every invoice table. Applying a payment
// and updating the parent invoice happen in one transaction, so the
// outstanding = final − received identity holds at every commit point.
type PaymentService interface {
	Apply(ctx context.Context, kind InvoiceKind, invoiceID int, input PaymentInput, actorID int) (*Payment, error)

	// Reverse deletes a payment and recomputes the parent invoice's totals.
	// The actor must re-enter an admin password; the payment row is removed
	// and the invoice is corrected, never left inconsistent.
	Reverse(ctx context.Context, kind InvoiceKind, invoiceID, paymentID, actorID int, password string) error

	ListByInvoice(ctx context.Context, kind InvoiceKind, invoiceID int) ([]Payment, error)
}

type paymentService struct {
	pool  *pgxpool.Pool
	users UserService
}

// NewPaymentService constructs a PaymentService backed by PostgreSQL.
func NewPaymentService(pool *pgxpool.Pool, users UserService) PaymentService {
	return &paymentService{pool: pool, users: users}
}

// invoiceTable maps an invoice kind to the table holding its bookkeeping
// block. Every table shares the same bookkeeping column names.
func invoiceTable(kind InvoiceKind) (string, error) {
	switch kind {
	case KindSales:
		return "sales_invoices", nil
	case KindPurchase:
		return "purchase_invoices", nil
	case KindFreight, KindTransport, KindDubaiTransport, KindDubaiClearance:
		return "dual_currency_invoices", nil
	default:
		return "", NewValidationError("invoice_kind", "unknown kind "+string(kind))
	}
}

func lockBookkeeping(ctx context.Context, tx pgx.Tx, table string, invoiceID int) (Bookkeeping, int, error) {
	var b Bookkeeping
	var version int
	err := tx.QueryRow(ctx, `
		SELECT final_amount, received_amount, outstanding_amount,
		       status, invoice_date, due_date, last_payment_date, version
		FROM `+table+`
		WHERE id = $1
		FOR UPDATE`,
		invoiceID,
	).Scan(&b.FinalAmount, &b.ReceivedAmount, &b.OutstandingAmount,
		&b.Status, &b.InvoiceDate, &b.DueDate, &b.LastPaymentDate, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return b, 0, fmt.Errorf("invoice %d not found in %s", invoiceID, table)
		}
		return b, 0, fmt.Errorf("lock invoice %d in %s: %w", invoiceID, table, err)
	}
	return b, version, nil
}

func writeBookkeeping(ctx context.Context, tx pgx.Tx, table string, invoiceID, version, actorID int, b Bookkeeping) error {
	tag, err := tx.Exec(ctx, `
		UPDATE `+table+`
		SET received_amount = $1, outstanding_amount = $2, status = $3,
		    last_payment_date = $4, updated_by = $5,
		    version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7`,
		b.ReceivedAmount, b.OutstandingAmount, b.Status, b.LastPaymentDate,
		actorID, invoiceID, version,
	)
	if err != nil {
		return fmt.Errorf("update invoice %d in %s: %w", invoiceID, table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (s *paymentService) Apply(ctx context.Context, kind InvoiceKind, invoiceID int, input PaymentInput, actorID int) (*Payment, error) {
	table, err := invoiceTable(kind)
	if err != nil {
		return nil, err
	}
	if input.ReceivedBy == 0 {
		input.ReceivedBy = actorID
	}
	// Receipts need a citable reference even when the clerk leaves it blank.
	if input.Reference == "" {
		input.Reference = uuid.NewString()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b, version, err := lockBookkeeping(ctx, tx, table, invoiceID)
	if err != nil {
		return nil, err
	}

	updated, payment, err := ApplyPayment(b, input, time.Now())
	if err != nil {
		return nil, err
	}
	payment.InvoiceKind = kind
	payment.InvoiceID = invoiceID

	if err := tx.QueryRow(ctx, `
		INSERT INTO payments
		       (invoice_kind, invoice_id, amount, payment_type, payment_method,
		        reference, notes, payment_date, received_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		payment.InvoiceKind, payment.InvoiceID, payment.Amount, payment.Type,
		payment.Method, payment.Reference, payment.Notes, payment.PaymentDate,
		payment.ReceivedBy,
	).Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	if err := writeBookkeeping(ctx, tx, table, invoiceID, version, actorID, updated); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}
	return &payment, nil
}

func (s *paymentService) Reverse(ctx context.Context, kind InvoiceKind, invoiceID, paymentID, actorID int, password string) error {
	table, err := invoiceTable(kind)
	if err != nil {
		return err
	}
	if err := s.users.VerifyAdminCredential(ctx, actorID, password); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b, version, err := lockBookkeeping(ctx, tx, table, invoiceID)
	if err != nil {
		return err
	}

	var p Payment
	if err := tx.QueryRow(ctx, `
		SELECT id, invoice_kind, invoice_id, amount, payment_type, payment_method,
		       COALESCE(reference, ''), COALESCE(notes, ''), payment_date, received_by, created_at
		FROM payments
		WHERE id = $1 AND invoice_kind = $2 AND invoice_id = $3`,
		paymentID, kind, invoiceID,
	).Scan(&p.ID, &p.InvoiceKind, &p.InvoiceID, &p.Amount, &p.Type, &p.Method,
		&p.Reference, &p.Notes, &p.PaymentDate, &p.ReceivedBy, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("payment %d not found on %s invoice %d", paymentID, kind, invoiceID)
		}
		return fmt.Errorf("fetch payment %d: %w", paymentID, err)
	}

	updated, err := ReversePayment(b, p, password, time.Now())
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM payments WHERE id = $1", paymentID); err != nil {
		return fmt.Errorf("delete payment %d: %w", paymentID, err)
	}

	// LastPaymentDate must reflect the remaining history, not the reversed row.
	if err := tx.QueryRow(ctx, `
		SELECT MAX(payment_date)
		FROM payments
		WHERE invoice_kind = $1 AND invoice_id = $2`,
		kind, invoiceID,
	).Scan(&updated.LastPaymentDate); err != nil {
		return fmt.Errorf("recompute last payment date: %w", err)
	}

	if err := writeBookkeeping(ctx, tx, table, invoiceID, version, actorID, updated); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit payment reversal: %w", err)
	}
	return nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, kind InvoiceKind, invoiceID int) ([]Payment, error) {
	if _, err := invoiceTable(kind); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_kind, invoice_id, amount, payment_type, payment_method,
		       COALESCE(reference, ''), COALESCE(notes, ''), payment_date, received_by, created_at
		FROM payments
		WHERE invoice_kind = $1 AND invoice_id = $2
		ORDER BY payment_date DESC, id DESC`,
		kind, invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments for %s invoice %d: %w", kind, invoiceID, err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceKind, &p.InvoiceID, &p.Amount, &p.Type,
			&p.Method, &p.Reference, &p.Notes, &p.PaymentDate, &p.ReceivedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
