package core

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GroupBy selects the rollup key for the outstanding report.
type GroupBy string

const (
	GroupByCustomer GroupBy = "customer"
	GroupByProduct  GroupBy = "product"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// InvoiceSummary is the read-side projection of one invoice the aggregator
// scans. Status must already be derived (including overdue) at scan time.
type InvoiceSummary struct {
	Kind              InvoiceKind
	ID                int
	CustomerName      string
	ProductName       string
	FinalAmount       decimal.Decimal
	ReceivedAmount    decimal.Decimal
	OutstandingAmount decimal.Decimal
	Status            InvoiceStatus
	DueDate           time.Time
	LastPaymentDate   *time.Time
}

// OutstandingOptions controls grouping, filtering, sorting and pagination.
type OutstandingOptions struct {
	GroupBy   GroupBy
	Search    string           // substring filter on the group key
	MinAmount *decimal.Decimal // inclusive bounds on TotalOutstanding
	MaxAmount *decimal.Decimal
	Status    InvoiceStatus // optional member-invoice filter; empty = all
	SortBy    string        // name|total_outstanding|total_amount|total_received|invoice_count|oldest_due_date|last_payment_date
	SortOrder SortOrder
	Page      int // 1-indexed; defaults to 1
	Limit     int // defaults to 20
}

// OutstandingRow is one group in the report.
type OutstandingRow struct {
	Name                  string          `json:"name"`
	TotalOutstanding      decimal.Decimal `json:"total_outstanding"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	TotalReceived         decimal.Decimal `json:"total_received"`
	InvoiceCount          int             `json:"invoice_count"`
	UnpaidInvoices        int             `json:"unpaid_invoices"`
	PartiallyPaidInvoices int             `json:"partially_paid_invoices"`
	OverdueInvoices       int             `json:"overdue_invoices"`
	PaidInvoices          int             `json:"paid_invoices"`
	LastPaymentDate       *time.Time      `json:"last_payment_date,omitempty"`
	OldestDueDate         time.Time       `json:"oldest_due_date"`
	Status                InvoiceStatus   `json:"status"`
}

// Pagination describes the returned page slice.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalRows  int `json:"total_rows"`
	TotalPages int `json:"total_pages"`
}

// OutstandingSummary is computed over the full filtered result set, not the
// current page, so the totals shown to the user are pagination-invariant.
type OutstandingSummary struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	GroupCount       int             `json:"group_count"`
	InvoiceCount     int             `json:"invoice_count"`
}

// OutstandingReport is the paged rollup returned to the caller.
type OutstandingReport struct {
	Rows       []OutstandingRow   `json:"rows"`
	Pagination Pagination         `json:"pagination"`
	Summary    OutstandingSummary `json:"summary"`
}

// AggregateOutstanding rolls up invoices by customer or product name.
//
// Paid invoices are not implicitly excluded: unless opts.Status filters them
// out they contribute zero to TotalOutstanding but still count toward
// TotalAmount and InvoiceCount. The grouping key is an exact string identity
// comparison on the stored name — no trimming, no case folding — because the
// source data carries denormalized display-name copies.
func AggregateOutstanding(invoices []InvoiceSummary, opts OutstandingOptions) (*OutstandingReport, error) {
	if opts.GroupBy != GroupByCustomer && opts.GroupBy != GroupByProduct {
		return nil, NewValidationError("group_by", "must be customer or product")
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}
	if opts.SortBy == "" {
		opts.SortBy = "total_outstanding"
	}
	if opts.SortOrder == "" {
		opts.SortOrder = SortDesc
	}
	if opts.SortOrder != SortAsc && opts.SortOrder != SortDesc {
		return nil, NewValidationError("sort_order", "must be asc or desc")
	}

	groups := make(map[string]*OutstandingRow)
	var order []string // deterministic iteration for stable output
	for _, inv := range invoices {
		if opts.Status != "" && inv.Status != opts.Status {
			continue
		}
		key := inv.CustomerName
		if opts.GroupBy == GroupByProduct {
			key = inv.ProductName
		}
		row, ok := groups[key]
		if !ok {
			row = &OutstandingRow{Name: key}
			groups[key] = row
			order = append(order, key)
		}
		row.TotalOutstanding = row.TotalOutstanding.Add(inv.OutstandingAmount)
		row.TotalAmount = row.TotalAmount.Add(inv.FinalAmount)
		row.TotalReceived = row.TotalReceived.Add(inv.ReceivedAmount)
		row.InvoiceCount++
		switch inv.Status {
		case StatusUnpaid:
			row.UnpaidInvoices++
		case StatusPartiallyPaid:
			row.PartiallyPaidInvoices++
		case StatusOverdue:
			row.OverdueInvoices++
		case StatusPaid:
			row.PaidInvoices++
		}
		if inv.LastPaymentDate != nil &&
			(row.LastPaymentDate == nil || inv.LastPaymentDate.After(*row.LastPaymentDate)) {
			d := *inv.LastPaymentDate
			row.LastPaymentDate = &d
		}
		if !inv.DueDate.IsZero() && (row.OldestDueDate.IsZero() || inv.DueDate.Before(row.OldestDueDate)) {
			row.OldestDueDate = inv.DueDate
		}
	}

	var rows []OutstandingRow
	for _, key := range order {
		row := groups[key]
		row.Status = groupStatus(row)
		if opts.Search != "" && !strings.Contains(row.Name, opts.Search) {
			continue
		}
		if opts.MinAmount != nil && row.TotalOutstanding.LessThan(*opts.MinAmount) {
			continue
		}
		if opts.MaxAmount != nil && row.TotalOutstanding.GreaterThan(*opts.MaxAmount) {
			continue
		}
		rows = append(rows, *row)
	}

	if err := sortRows(rows, opts.SortBy, opts.SortOrder); err != nil {
		return nil, err
	}

	summary := OutstandingSummary{GroupCount: len(rows)}
	for _, r := range rows {
		summary.TotalOutstanding = summary.TotalOutstanding.Add(r.TotalOutstanding)
		summary.TotalAmount = summary.TotalAmount.Add(r.TotalAmount)
		summary.TotalReceived = summary.TotalReceived.Add(r.TotalReceived)
		summary.InvoiceCount += r.InvoiceCount
	}

	totalRows := len(rows)
	totalPages := (totalRows + opts.Limit - 1) / opts.Limit
	start := (opts.Page - 1) * opts.Limit
	if start > totalRows {
		start = totalRows
	}
	end := start + opts.Limit
	if end > totalRows {
		end = totalRows
	}

	return &OutstandingReport{
		Rows: rows[start:end],
		Pagination: Pagination{
			Page:       opts.Page,
			Limit:      opts.Limit,
			TotalRows:  totalRows,
			TotalPages: totalPages,
		},
		Summary: summary,
	}, nil
}

// groupStatus derives a display status for the whole group:
// overdue > partially_paid > paid > unpaid.
func groupStatus(row *OutstandingRow) InvoiceStatus {
	switch {
	case row.OverdueInvoices > 0:
		return StatusOverdue
	case row.PartiallyPaidInvoices > 0:
		return StatusPartiallyPaid
	case row.InvoiceCount > 0 && row.PaidInvoices == row.InvoiceCount:
		return StatusPaid
	default:
		return StatusUnpaid
	}
}

func sortRows(rows []OutstandingRow, sortBy string, order SortOrder) error {
	var less func(a, b OutstandingRow) bool
	switch sortBy {
	case "name":
		less = func(a, b OutstandingRow) bool { return a.Name < b.Name }
	case "total_outstanding":
		less = func(a, b OutstandingRow) bool { return a.TotalOutstanding.LessThan(b.TotalOutstanding) }
	case "total_amount":
		less = func(a, b OutstandingRow) bool { return a.TotalAmount.LessThan(b.TotalAmount) }
	case "total_received":
		less = func(a, b OutstandingRow) bool { return a.TotalReceived.LessThan(b.TotalReceived) }
	case "invoice_count":
		less = func(a, b OutstandingRow) bool { return a.InvoiceCount < b.InvoiceCount }
	case "oldest_due_date":
		less = func(a, b OutstandingRow) bool { return a.OldestDueDate.Before(b.OldestDueDate) }
	case "last_payment_date":
		less = func(a, b OutstandingRow) bool {
			switch {
			case a.LastPaymentDate == nil:
				return b.LastPaymentDate != nil
			case b.LastPaymentDate == nil:
				return false
			default:
				return a.LastPaymentDate.Before(*b.LastPaymentDate)
			}
		}
	default:
		return NewValidationError("sort_by", "unknown field "+sortBy)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if order == SortDesc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
	return nil
}
