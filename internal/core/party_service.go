package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PartyInput is the caller-supplied portion of a customer or supplier record.
type PartyInput struct {
	Name    string
	Phone   string
	Address string
}

type CustomerService interface {
	Create(ctx context.Context, input PartyInput) (*Customer, error)
	Get(ctx context.Context, id int) (*Customer, error)
	List(ctx context.Context, search string) ([]Customer, error)
	Update(ctx context.Context, id int, input PartyInput) (*Customer, error)
	Deactivate(ctx context.Context, id int) error
}

type SupplierService interface {
	Create(ctx context.Context, input PartyInput) (*Supplier, error)
	Get(ctx context.Context, id int) (*Supplier, error)
	List(ctx context.Context, search string) ([]Supplier, error)
	Update(ctx context.Context, id int, input PartyInput) (*Supplier, error)
	Deactivate(ctx context.Context, id int) error
}

// Customers and suppliers are the same shape over different tables, so one
// implementation serves both behind the two interfaces.

type customerService struct{ parties partyStore }
type supplierService struct{ parties partyStore }

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{parties: partyStore{pool: pool, table: "customers"}}
}

// NewSupplierService constructs a SupplierService backed by PostgreSQL.
func NewSupplierService(pool *pgxpool.Pool) SupplierService {
	return &supplierService{parties: partyStore{pool: pool, table: "suppliers"}}
}

func (s *customerService) Create(ctx context.Context, input PartyInput) (*Customer, error) {
	return wrapParty[Customer](s.parties.create(ctx, input))
}
func (s *customerService) Get(ctx context.Context, id int) (*Customer, error) {
	return wrapParty[Customer](s.parties.get(ctx, id))
}
func (s *customerService) List(ctx context.Context, search string) ([]Customer, error) {
	rows, err := s.parties.list(ctx, search)
	if err != nil {
		return nil, err
	}
	out := make([]Customer, len(rows))
	for i, r := range rows {
		out[i] = Customer(r)
	}
	return out, nil
}
func (s *customerService) Update(ctx context.Context, id int, input PartyInput) (*Customer, error) {
	return wrapParty[Customer](s.parties.update(ctx, id, input))
}
func (s *customerService) Deactivate(ctx context.Context, id int) error {
	return s.parties.deactivate(ctx, id)
}

func (s *supplierService) Create(ctx context.Context, input PartyInput) (*Supplier, error) {
	return wrapParty[Supplier](s.parties.create(ctx, input))
}
func (s *supplierService) Get(ctx context.Context, id int) (*Supplier, error) {
	return wrapParty[Supplier](s.parties.get(ctx, id))
}
func (s *supplierService) List(ctx context.Context, search string) ([]Supplier, error) {
	rows, err := s.parties.list(ctx, search)
	if err != nil {
		return nil, err
	}
	out := make([]Supplier, len(rows))
	for i, r := range rows {
		out[i] = Supplier(r)
	}
	return out, nil
}
func (s *supplierService) Update(ctx context.Context, id int, input PartyInput) (*Supplier, error) {
	return wrapParty[Supplier](s.parties.update(ctx, id, input))
}
func (s *supplierService) Deactivate(ctx context.Context, id int) error {
	return s.parties.deactivate(ctx, id)
}

func wrapParty[T Customer | Supplier](r partyRow, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	t := T(r)
	return &t, nil
}

// partyRow is the shared row shape of customers and suppliers.
type partyRow Customer

type partyStore struct {
	pool  *pgxpool.Pool
	table string // "customers" or "suppliers" — fixed at construction, never caller input
}

func (p partyStore) create(ctx context.Context, input PartyInput) (partyRow, error) {
	var r partyRow
	if input.Name == "" {
		return r, NewValidationError("name", "must not be empty")
	}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO `+p.table+` (name, phone, address)
		VALUES ($1, $2, $3)
		RETURNING id, name, COALESCE(phone, ''), COALESCE(address, ''), is_active, created_at`,
		input.Name, input.Phone, input.Address,
	).Scan(&r.ID, &r.Name, &r.Phone, &r.Address, &r.IsActive, &r.CreatedAt)
	if err != nil {
		return r, fmt.Errorf("create %s %q: %w", p.table, input.Name, err)
	}
	return r, nil
}

func (p partyStore) get(ctx context.Context, id int) (partyRow, error) {
	var r partyRow
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), is_active, created_at
		FROM `+p.table+`
		WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Name, &r.Phone, &r.Address, &r.IsActive, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r, fmt.Errorf("%s %d not found", p.table, id)
		}
		return r, fmt.Errorf("get %s %d: %w", p.table, id, err)
	}
	return r, nil
}

func (p partyStore) list(ctx context.Context, search string) ([]partyRow, error) {
	q := `
		SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), is_active, created_at
		FROM ` + p.table + `
		WHERE is_active = true`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		q += " AND name ILIKE $1"
	}
	q += " ORDER BY name"

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", p.table, err)
	}
	defer rows.Close()

	var out []partyRow
	for rows.Next() {
		var r partyRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Phone, &r.Address, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p partyStore) update(ctx context.Context, id int, input PartyInput) (partyRow, error) {
	var r partyRow
	if input.Name == "" {
		return r, NewValidationError("name", "must not be empty")
	}
	err := p.pool.QueryRow(ctx, `
		UPDATE `+p.table+`
		SET name = $1, phone = $2, address = $3
		WHERE id = $4
		RETURNING id, name, COALESCE(phone, ''), COALESCE(address, ''), is_active, created_at`,
		input.Name, input.Phone, input.Address, id,
	).Scan(&r.ID, &r.Name, &r.Phone, &r.Address, &r.IsActive, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r, fmt.Errorf("%s %d not found", p.table, id)
		}
		return r, fmt.Errorf("update %s %d: %w", p.table, id, err)
	}
	return r, nil
}

func (p partyStore) deactivate(ctx context.Context, id int) error {
	tag, err := p.pool.Exec(ctx,
		"UPDATE "+p.table+" SET is_active = false WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deactivate %s %d: %w", p.table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d not found", p.table, id)
	}
	return nil
}
