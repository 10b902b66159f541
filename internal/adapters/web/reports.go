package web

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"tradebooks/internal/core"
)

// outstandingOptions parses the shared query parameters of the outstanding
// report endpoints. groupBy defaults to customer.
func outstandingOptions(r *http.Request) (core.OutstandingOptions, error) {
	q := r.URL.Query()

	opts := core.OutstandingOptions{
		GroupBy:   core.GroupBy(q.Get("groupBy")),
		Search:    q.Get("search"),
		Status:    core.InvoiceStatus(q.Get("status")),
		SortBy:    q.Get("sortBy"),
		SortOrder: core.SortOrder(q.Get("sortOrder")),
	}
	if opts.GroupBy == "" {
		opts.GroupBy = core.GroupByCustomer
	}

	if v := q.Get("minAmount"); v != "" {
		min, err := decimal.NewFromString(v)
		if err != nil {
			return opts, core.NewValidationError("minAmount", "invalid decimal "+v)
		}
		opts.MinAmount = &min
	}
	if v := q.Get("maxAmount"); v != "" {
		max, err := decimal.NewFromString(v)
		if err != nil {
			return opts, core.NewValidationError("maxAmount", "invalid decimal "+v)
		}
		opts.MaxAmount = &max
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, core.NewValidationError("page", "invalid integer "+v)
		}
		opts.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, core.NewValidationError("limit", "invalid integer "+v)
		}
		opts.Limit = n
	}
	return opts, nil
}

// customerOutstanding handles GET /api/reports/outstanding — the receivable
// rollup over sales and freight-type invoices.
func (h *Handler) customerOutstanding(w http.ResponseWriter, r *http.Request) {
	opts, err := outstandingOptions(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	report, err := h.svc.CustomerOutstanding(r.Context(), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// supplierOutstanding handles GET /api/reports/payables — the payable rollup
// over purchase invoices.
func (h *Handler) supplierOutstanding(w http.ResponseWriter, r *http.Request) {
	opts, err := outstandingOptions(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	report, err := h.svc.SupplierOutstanding(r.Context(), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, report)
}
