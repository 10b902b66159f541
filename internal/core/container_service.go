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

// ContainerStatementInput is the caller-supplied portion of a container
// statement. Product lines arrive as entered; grouping and the commission
// expense are derived on save.
type ContainerStatementInput struct {
	ContainerNo   string
	StatementDate time.Time
	CommissionPct decimal.Decimal
	Products      []ProductLine
	Expenses      []ExpenseLine
}

type ContainerStatementService interface {
	// Save creates the statement for a container number or replaces its lines
	// if one already exists. Lines are regrouped and the settlement re-derived
	// before anything is written.
	Save(ctx context.Context, input ContainerStatementInput, actorID int) (*ContainerStatement, error)

	Get(ctx context.Context, containerNo string) (*ContainerStatement, error)
	List(ctx context.Context) ([]ContainerStatement, error)

	AddExpense(ctx context.Context, containerNo, description string, amount decimal.Decimal, actorID int) (*ContainerStatement, error)
	RemoveExpense(ctx context.Context, containerNo string, expenseID, actorID int) (*ContainerStatement, error)

	Delete(ctx context.Context, containerNo string) error
}

type containerStatementService struct {
	pool *pgxpool.Pool
}

// NewContainerStatementService constructs a ContainerStatementService backed
// by PostgreSQL.
func NewContainerStatementService(pool *pgxpool.Pool) ContainerStatementService {
	return &containerStatementService{pool: pool}
}

func (s *containerStatementService) Save(ctx context.Context, input ContainerStatementInput, actorID int) (*ContainerStatement, error) {
	if input.ContainerNo == "" {
		return nil, NewValidationError("container_no", "must not be empty")
	}
	if input.CommissionPct.IsNegative() {
		return nil, NewValidationError("commission_percentage", "must not be negative")
	}
	for _, e := range input.Expenses {
		if e.Description == "" {
			return nil, NewValidationError("expenses", "description must not be empty")
		}
		if !e.Amount.IsPositive() {
			return nil, NewValidationError("expenses", "amount must be greater than zero")
		}
	}

	st := &ContainerStatement{
		ContainerNo:   input.ContainerNo,
		StatementDate: input.StatementDate,
		CommissionPct: input.CommissionPct,
		Products:      input.Products,
	}
	// Caller-supplied expenses are always manual; the commission line is
	// regenerated, never trusted from input.
	for _, e := range input.Expenses {
		st.Expenses = append(st.Expenses, ExpenseLine{Description: e.Description, Amount: e.Amount})
	}
	st.Recompute()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO container_statements
		       (container_no, statement_date, commission_pct, gross_sale,
		        total_expenses, net_sale, total_quantity, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (container_no) DO UPDATE
		SET statement_date = EXCLUDED.statement_date,
		    commission_pct = EXCLUDED.commission_pct,
		    gross_sale = EXCLUDED.gross_sale,
		    total_expenses = EXCLUDED.total_expenses,
		    net_sale = EXCLUDED.net_sale,
		    total_quantity = EXCLUDED.total_quantity,
		    updated_by = EXCLUDED.updated_by,
		    version = container_statements.version + 1,
		    updated_at = NOW()
		RETURNING id`,
		st.ContainerNo, st.StatementDate, st.CommissionPct, st.GrossSale,
		st.TotalExpenses, st.NetSale, st.TotalQuantity, actorID,
	).Scan(&st.ID)
	if err != nil {
		return nil, fmt.Errorf("save container statement %q: %w", st.ContainerNo, err)
	}

	if err := s.replaceLines(ctx, tx, st); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit container statement: %w", err)
	}
	return s.Get(ctx, st.ContainerNo)
}

// replaceLines rewrites the product and expense rows for a statement to match
// its in-memory state.
func (s *containerStatementService) replaceLines(ctx context.Context, tx pgx.Tx, st *ContainerStatement) error {
	if _, err := tx.Exec(ctx,
		"DELETE FROM container_product_lines WHERE statement_id = $1", st.ID); err != nil {
		return fmt.Errorf("clear product lines: %w", err)
	}
	if _, err := tx.Exec(ctx,
		"DELETE FROM container_expenses WHERE statement_id = $1", st.ID); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	for _, p := range st.Products {
		if _, err := tx.Exec(ctx, `
			INSERT INTO container_product_lines
			       (statement_id, sr_no, product, quantity, unit_price, amount)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			st.ID, p.SrNo, p.Product, p.Quantity, p.UnitPrice, p.Amount,
		); err != nil {
			return fmt.Errorf("insert product line %q: %w", p.Product, err)
		}
	}
	for _, e := range st.Expenses {
		if _, err := tx.Exec(ctx, `
			INSERT INTO container_expenses
			       (statement_id, description, amount, is_auto_generated)
			VALUES ($1, $2, $3, $4)`,
			st.ID, e.Description, e.Amount, e.IsAutoGenerated,
		); err != nil {
			return fmt.Errorf("insert expense %q: %w", e.Description, err)
		}
	}
	return nil
}

func (s *containerStatementService) Get(ctx context.Context, containerNo string) (*ContainerStatement, error) {
	st := &ContainerStatement{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, container_no, statement_date, commission_pct,
		       gross_sale, total_expenses, net_sale, total_quantity,
		       created_by, updated_by, version, created_at, updated_at
		FROM container_statements
		WHERE container_no = $1`,
		containerNo,
	).Scan(&st.ID, &st.ContainerNo, &st.StatementDate, &st.CommissionPct,
		&st.GrossSale, &st.TotalExpenses, &st.NetSale, &st.TotalQuantity,
		&st.CreatedBy, &st.UpdatedBy, &st.Version, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("container statement %q not found", containerNo)
		}
		return nil, fmt.Errorf("get container statement %q: %w", containerNo, err)
	}

	if st.Products, err = s.productLines(ctx, st.ID); err != nil {
		return nil, err
	}
	if st.Expenses, err = s.expenseLines(ctx, st.ID); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *containerStatementService) productLines(ctx context.Context, statementID int) ([]ProductLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sr_no, product, quantity, unit_price, amount
		FROM container_product_lines
		WHERE statement_id = $1
		ORDER BY sr_no`,
		statementID)
	if err != nil {
		return nil, fmt.Errorf("list product lines: %w", err)
	}
	defer rows.Close()

	var out []ProductLine
	for rows.Next() {
		var p ProductLine
		if err := rows.Scan(&p.SrNo, &p.Product, &p.Quantity, &p.UnitPrice, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan product line: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *containerStatementService) expenseLines(ctx context.Context, statementID int) ([]ExpenseLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, description, amount, is_auto_generated
		FROM container_expenses
		WHERE statement_id = $1
		ORDER BY is_auto_generated, id`,
		statementID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []ExpenseLine
	for rows.Next() {
		var e ExpenseLine
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.IsAutoGenerated); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *containerStatementService) List(ctx context.Context) ([]ContainerStatement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, container_no, statement_date, commission_pct,
		       gross_sale, total_expenses, net_sale, total_quantity,
		       created_by, updated_by, version, created_at, updated_at
		FROM container_statements
		ORDER BY statement_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list container statements: %w", err)
	}
	defer rows.Close()

	var out []ContainerStatement
	for rows.Next() {
		var st ContainerStatement
		if err := rows.Scan(&st.ID, &st.ContainerNo, &st.StatementDate, &st.CommissionPct,
			&st.GrossSale, &st.TotalExpenses, &st.NetSale, &st.TotalQuantity,
			&st.CreatedBy, &st.UpdatedBy, &st.Version, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan container statement: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// mutate loads a statement under lock, applies fn, and persists the recomputed
// result with a version check.
func (s *containerStatementService) mutate(ctx context.Context, containerNo string, actorID int, fn func(*ContainerStatement) error) (*ContainerStatement, error) {
	st, err := s.Get(ctx, containerNo)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var version int
	if err := tx.QueryRow(ctx,
		"SELECT version FROM container_statements WHERE id = $1 FOR UPDATE", st.ID,
	).Scan(&version); err != nil {
		return nil, fmt.Errorf("lock container statement %q: %w", containerNo, err)
	}
	if version != st.Version {
		return nil, ErrVersionConflict
	}

	if err := fn(st); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE container_statements
		SET gross_sale = $1, total_expenses = $2, net_sale = $3, total_quantity = $4,
		    updated_by = $5, version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7`,
		st.GrossSale, st.TotalExpenses, st.NetSale, st.TotalQuantity,
		actorID, st.ID, version,
	)
	if err != nil {
		return nil, fmt.Errorf("update container statement %q: %w", containerNo, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrVersionConflict
	}

	if err := s.replaceLines(ctx, tx, st); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit container statement mutation: %w", err)
	}
	return s.Get(ctx, containerNo)
}

func (s *containerStatementService) AddExpense(ctx context.Context, containerNo, description string, amount decimal.Decimal, actorID int) (*ContainerStatement, error) {
	return s.mutate(ctx, containerNo, actorID, func(st *ContainerStatement) error {
		return st.AddExpense(description, amount)
	})
}

func (s *containerStatementService) RemoveExpense(ctx context.Context, containerNo string, expenseID, actorID int) (*ContainerStatement, error) {
	return s.mutate(ctx, containerNo, actorID, func(st *ContainerStatement) error {
		for i, e := range st.Expenses {
			if e.ID == expenseID {
				return st.RemoveExpense(i)
			}
		}
		return fmt.Errorf("expense %d not found on container statement %q", expenseID, containerNo)
	})
}

func (s *containerStatementService) Delete(ctx context.Context, containerNo string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int
	if err := tx.QueryRow(ctx,
		"SELECT id FROM container_statements WHERE container_no = $1 FOR UPDATE", containerNo,
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("container statement %q not found", containerNo)
		}
		return fmt.Errorf("lock container statement %q: %w", containerNo, err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM container_product_lines WHERE statement_id = $1", id); err != nil {
		return fmt.Errorf("delete product lines: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM container_expenses WHERE statement_id = $1", id); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM container_statements WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete container statement %q: %w", containerNo, err)
	}
	return tx.Commit(ctx)
}
