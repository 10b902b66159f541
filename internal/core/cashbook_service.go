package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CashEntryInput is the caller-supplied portion of a cash book line.
type CashEntryInput struct {
	EntryDate    time.Time
	Direction    CashDirection
	Amount       decimal.Decimal
	Description  string
	Counterparty string
	Method       PaymentMethod
}

type CashBookService interface {
	Append(ctx context.Context, input CashEntryInput, actorID int) (*CashEntry, error)

	// DayBook summarizes one calendar day. The opening balance is the running
	// balance of all entries before that day, so the book is rebuildable from
	// the entry list alone.
	DayBook(ctx context.Context, date time.Time) (*DayBook, error)

	Delete(ctx context.Context, id int) error
}

type cashBookService struct {
	pool *pgxpool.Pool
}

// NewCashBookService constructs a CashBookService backed by PostgreSQL.
func NewCashBookService(pool *pgxpool.Pool) CashBookService {
	return &cashBookService{pool: pool}
}

func (s *cashBookService) Append(ctx context.Context, input CashEntryInput, actorID int) (*CashEntry, error) {
	if input.Direction != CashIn && input.Direction != CashOut {
		return nil, NewValidationError("direction", "must be in or out")
	}
	if !input.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if input.Description == "" {
		return nil, NewValidationError("description", "must not be empty")
	}
	if !input.Method.Valid() {
		return nil, NewValidationError("method", "unknown method "+string(input.Method))
	}
	entryDate := input.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	e := &CashEntry{
		Direction:    input.Direction,
		Amount:       input.Amount,
		Description:  input.Description,
		Counterparty: input.Counterparty,
		Method:       input.Method,
		CreatedBy:    actorID,
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO cash_entries
		       (entry_date, direction, amount, description, counterparty, method, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, entry_date, created_at`,
		entryDate, input.Direction, input.Amount, input.Description,
		input.Counterparty, input.Method, actorID,
	).Scan(&e.ID, &e.EntryDate, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("append cash entry: %w", err)
	}
	return e, nil
}

func (s *cashBookService) DayBook(ctx context.Context, date time.Time) (*DayBook, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	next := day.AddDate(0, 0, 1)

	var opening decimal.Decimal
	if err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'in' THEN amount ELSE -amount END), 0)
		FROM cash_entries
		WHERE entry_date < $1`,
		day,
	).Scan(&opening); err != nil {
		return nil, fmt.Errorf("compute opening balance: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, entry_date, direction, amount, description,
		       COALESCE(counterparty, ''), method, created_by, created_at
		FROM cash_entries
		WHERE entry_date >= $1 AND entry_date < $2
		ORDER BY entry_date, id`,
		day, next,
	)
	if err != nil {
		return nil, fmt.Errorf("list cash entries: %w", err)
	}
	defer rows.Close()

	var entries []CashEntry
	for rows.Next() {
		var e CashEntry
		if err := rows.Scan(&e.ID, &e.EntryDate, &e.Direction, &e.Amount, &e.Description,
			&e.Counterparty, &e.Method, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	book := BuildDayBook(entries, opening, day)
	return &book, nil
}

func (s *cashBookService) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM cash_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete cash entry %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cash entry %d not found", id)
	}
	return nil
}
