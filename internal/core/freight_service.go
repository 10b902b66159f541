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

// DualCurrencyInvoiceInput is the entry-level portion of a freight-type
// invoice. AmountPKR is the authoritative amount; the AED figure is derived
// from ConversionRate (PKR per AED) and never entered directly.
type DualCurrencyInvoiceInput struct {
	PartyName      string
	Agent          string
	ContainerNo    string
	AmountPKR      decimal.Decimal
	ConversionRate decimal.Decimal
	InvoiceDate    time.Time
	DueDate        time.Time
}

// DualCurrencyInvoiceService serves all four freight-type collections through
// one implementation; Kind selects the collection.
type DualCurrencyInvoiceService interface {
	Create(ctx context.Context, kind InvoiceKind, input DualCurrencyInvoiceInput, actorID int) (*DualCurrencyInvoice, error)
	Get(ctx context.Context, kind InvoiceKind, id int) (*DualCurrencyInvoice, error)
	List(ctx context.Context, kind InvoiceKind, status InvoiceStatus, party string) ([]DualCurrencyInvoice, error)
	Update(ctx context.Context, kind InvoiceKind, id int, input DualCurrencyInvoiceInput, actorID int) (*DualCurrencyInvoice, error)
	Delete(ctx context.Context, kind InvoiceKind, id int) error
}

type dualCurrencyInvoiceService struct {
	pool *pgxpool.Pool
}

// NewDualCurrencyInvoiceService constructs the freight-type invoice service.
func NewDualCurrencyInvoiceService(pool *pgxpool.Pool) DualCurrencyInvoiceService {
	return &dualCurrencyInvoiceService{pool: pool}
}

const dcInvoiceColumns = `
	id, kind, party_name, COALESCE(agent, ''), COALESCE(container_no, ''),
	amount_pkr, conversion_rate, amount_aed,
	final_amount, received_amount, outstanding_amount,
	status, invoice_date, due_date, last_payment_date,
	created_by, updated_by, version, created_at, updated_at`

func scanDCInvoice(row pgx.Row) (*DualCurrencyInvoice, error) {
	inv := &DualCurrencyInvoice{}
	err := row.Scan(
		&inv.ID, &inv.Kind, &inv.PartyName, &inv.Agent, &inv.ContainerNo,
		&inv.AmountPKR, &inv.ConversionRate, &inv.AmountAED,
		&inv.FinalAmount, &inv.ReceivedAmount, &inv.OutstandingAmount,
		&inv.Status, &inv.InvoiceDate, &inv.DueDate, &inv.LastPaymentDate,
		&inv.CreatedBy, &inv.UpdatedBy, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func checkDualCurrencyKind(kind InvoiceKind) error {
	if !kind.IsDualCurrency() {
		return NewValidationError("kind", string(kind)+" is not a dual-currency invoice kind")
	}
	return nil
}

func (s *dualCurrencyInvoiceService) Create(ctx context.Context, kind InvoiceKind, input DualCurrencyInvoiceInput, actorID int) (*DualCurrencyInvoice, error) {
	if err := checkDualCurrencyKind(kind); err != nil {
		return nil, err
	}
	if input.PartyName == "" {
		return nil, NewValidationError("party_name", "must not be empty")
	}

	amountPKR := input.AmountPKR
	if amountPKR.IsNegative() {
		amountPKR = decimal.Zero
	}
	amountAED := ConvertCurrency(amountPKR, input.ConversionRate, PKRToAED)
	status := DeriveStatus(amountPKR, decimal.Zero, input.DueDate, time.Now())

	inv, err := scanDCInvoice(s.pool.QueryRow(ctx, `
		INSERT INTO dual_currency_invoices
		       (kind, party_name, agent, container_no, amount_pkr, conversion_rate,
		        amount_aed, final_amount, received_amount, outstanding_amount,
		        status, invoice_date, due_date, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $5, 0, $5, $8, $9, $10, $11, $11)
		RETURNING`+dcInvoiceColumns,
		kind, input.PartyName, input.Agent, input.ContainerNo, amountPKR,
		input.ConversionRate, amountAED, status, input.InvoiceDate, input.DueDate, actorID,
	))
	if err != nil {
		return nil, fmt.Errorf("create %s invoice: %w", kind, err)
	}
	return inv, nil
}

func (s *dualCurrencyInvoiceService) Get(ctx context.Context, kind InvoiceKind, id int) (*DualCurrencyInvoice, error) {
	if err := checkDualCurrencyKind(kind); err != nil {
		return nil, err
	}
	inv, err := scanDCInvoice(s.pool.QueryRow(ctx,
		"SELECT"+dcInvoiceColumns+" FROM dual_currency_invoices WHERE id = $1 AND kind = $2",
		id, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s invoice %d not found", kind, id)
		}
		return nil, fmt.Errorf("get %s invoice %d: %w", kind, id, err)
	}
	return inv, nil
}

func (s *dualCurrencyInvoiceService) List(ctx context.Context, kind InvoiceKind, status InvoiceStatus, party string) ([]DualCurrencyInvoice, error) {
	if err := checkDualCurrencyKind(kind); err != nil {
		return nil, err
	}
	q := "SELECT" + dcInvoiceColumns + " FROM dual_currency_invoices WHERE kind = $1"
	args := []any{kind}
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if party != "" {
		args = append(args, "%"+party+"%")
		q += fmt.Sprintf(" AND party_name ILIKE $%d", len(args))
	}
	q += " ORDER BY invoice_date DESC, id DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s invoices: %w", kind, err)
	}
	defer rows.Close()

	var out []DualCurrencyInvoice
	for rows.Next() {
		inv, err := scanDCInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s invoice: %w", kind, err)
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (s *dualCurrencyInvoiceService) Update(ctx context.Context, kind InvoiceKind, id int, input DualCurrencyInvoiceInput, actorID int) (*DualCurrencyInvoice, error) {
	if err := checkDualCurrencyKind(kind); err != nil {
		return nil, err
	}
	if input.PartyName == "" {
		return nil, NewValidationError("party_name", "must not be empty")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var received decimal.Decimal
	var version int
	if err := tx.QueryRow(ctx,
		"SELECT received_amount, version FROM dual_currency_invoices WHERE id = $1 AND kind = $2 FOR UPDATE",
		id, kind,
	).Scan(&received, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s invoice %d not found", kind, id)
		}
		return nil, fmt.Errorf("fetch %s invoice %d: %w", kind, id, err)
	}

	amountPKR := input.AmountPKR
	if amountPKR.IsNegative() {
		amountPKR = decimal.Zero
	}
	if received.GreaterThan(amountPKR) {
		return nil, NewValidationError("amount_pkr",
			fmt.Sprintf("cannot drop below received amount %s", received.StringFixed(2)))
	}
	amountAED := ConvertCurrency(amountPKR, input.ConversionRate, PKRToAED)
	status := DeriveStatus(amountPKR, received, input.DueDate, time.Now())

	tag, err := tx.Exec(ctx, `
		UPDATE dual_currency_invoices
		SET party_name = $1, agent = $2, container_no = $3, amount_pkr = $4,
		    conversion_rate = $5, amount_aed = $6,
		    final_amount = $4, outstanding_amount = $4 - received_amount,
		    status = $7, invoice_date = $8, due_date = $9,
		    updated_by = $10, version = version + 1, updated_at = NOW()
		WHERE id = $11 AND kind = $12 AND version = $13`,
		input.PartyName, input.Agent, input.ContainerNo, amountPKR,
		input.ConversionRate, amountAED, status, input.InvoiceDate, input.DueDate,
		actorID, id, kind, version,
	)
	if err != nil {
		return nil, fmt.Errorf("update %s invoice %d: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrVersionConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit %s invoice update: %w", kind, err)
	}
	return s.Get(ctx, kind, id)
}

func (s *dualCurrencyInvoiceService) Delete(ctx context.Context, kind InvoiceKind, id int) error {
	if err := checkDualCurrencyKind(kind); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"DELETE FROM payments WHERE invoice_kind = $1 AND invoice_id = $2",
		kind, id,
	); err != nil {
		return fmt.Errorf("delete payments for %s invoice %d: %w", kind, id, err)
	}

	tag, err := tx.Exec(ctx,
		"DELETE FROM dual_currency_invoices WHERE id = $1 AND kind = $2", id, kind)
	if err != nil {
		return fmt.Errorf("delete %s invoice %d: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s invoice %d not found", kind, id)
	}
	return tx.Commit(ctx)
}
