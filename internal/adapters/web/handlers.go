package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tradebooks/internal/app"
	"tradebooks/internal/core"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API (401 JSON if unauthenticated) ──────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Parties
		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.createCustomer)
		r.Put("/api/customers/{id}", h.updateCustomer)
		r.Delete("/api/customers/{id}", h.deactivateCustomer)
		r.Get("/api/suppliers", h.listSuppliers)
		r.Post("/api/suppliers", h.createSupplier)
		r.Put("/api/suppliers/{id}", h.updateSupplier)
		r.Delete("/api/suppliers/{id}", h.deactivateSupplier)

		// Sales invoices
		r.Get("/api/sales-invoices", h.listSalesInvoices)
		r.Post("/api/sales-invoices", h.createSalesInvoice)
		r.Get("/api/sales-invoices/{id}", h.getSalesInvoice)
		r.Put("/api/sales-invoices/{id}", h.updateSalesInvoice)
		r.Delete("/api/sales-invoices/{id}", h.deleteSalesInvoice)

		// Purchase invoices
		r.Get("/api/purchases", h.listPurchaseInvoices)
		r.Post("/api/purchases", h.createPurchaseInvoice)
		r.Get("/api/purchases/{id}", h.getPurchaseInvoice)
		r.Put("/api/purchases/{id}", h.updatePurchaseInvoice)
		r.Delete("/api/purchases/{id}", h.deletePurchaseInvoice)

		// Freight-type invoices: {kind} ∈ freight|transport|dubai_transport|dubai_clearance
		r.Get("/api/invoices/{kind}", h.listDualCurrencyInvoices)
		r.Post("/api/invoices/{kind}", h.createDualCurrencyInvoice)
		r.Get("/api/invoices/{kind}/{id}", h.getDualCurrencyInvoice)
		r.Put("/api/invoices/{kind}/{id}", h.updateDualCurrencyInvoice)
		r.Delete("/api/invoices/{kind}/{id}", h.deleteDualCurrencyInvoice)

		// Payments: the same ledger serves every invoice kind
		r.Get("/api/invoices/{kind}/{id}/payments", h.listPayments)
		r.Post("/api/invoices/{kind}/{id}/payments", h.recordPayment)
		r.Delete("/api/invoices/{kind}/{id}/payments/{paymentID}", h.reversePayment)

		// Reports
		r.Get("/api/reports/outstanding", h.customerOutstanding)
		r.Get("/api/reports/payables", h.supplierOutstanding)

		// Container statements
		r.Get("/api/containers", h.listContainerStatements)
		r.Post("/api/containers", h.saveContainerStatement)
		r.Get("/api/containers/{containerNo}", h.getContainerStatement)
		r.Delete("/api/containers/{containerNo}", h.deleteContainerStatement)
		r.Post("/api/containers/{containerNo}/expenses", h.addContainerExpense)
		r.Delete("/api/containers/{containerNo}/expenses/{expenseID}", h.removeContainerExpense)

		// Cash book
		r.Post("/api/cashbook", h.appendCashEntry)
		r.Get("/api/cashbook/daybook", h.getDayBook)
		r.Delete("/api/cashbook/{id}", h.deleteCashEntry)
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// urlID extracts and parses a numeric URL parameter.
func urlID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

// urlKind extracts the {kind} URL parameter and checks it is a freight-type kind.
func urlKind(r *http.Request) (core.InvoiceKind, error) {
	kind := core.InvoiceKind(chi.URLParam(r, "kind"))
	if !kind.IsDualCurrency() && kind != core.KindSales && kind != core.KindPurchase {
		return "", core.NewValidationError("kind", "unknown invoice kind "+string(kind))
	}
	return kind, nil
}

// parseDate parses an optional YYYY-MM-DD field; empty yields the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// actorID returns the authenticated user's ID from the request context.
func actorID(r *http.Request) int {
	if claims := authFromContext(r.Context()); claims != nil {
		return claims.UserID
	}
	return 0
}
