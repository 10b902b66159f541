package web

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"tradebooks/internal/app"
	"tradebooks/internal/core"
)

// Amounts in request bodies are JSON strings ("123.45") to avoid float64
// rounding on the wire; dates are YYYY-MM-DD.

type salesInvoiceBody struct {
	CustomerName string `json:"customer_name"`
	ProductName  string `json:"product_name"`
	Quantity     string `json:"quantity"`
	UnitRate     string `json:"unit_rate"`
	VATPct       string `json:"vat_percentage"`
	Discount     string `json:"discount"`
	InvoiceDate  string `json:"invoice_date"`
	DueDate      string `json:"due_date"`
}

func (b salesInvoiceBody) toRequest() (app.SalesInvoiceRequest, error) {
	var req app.SalesInvoiceRequest
	var err error
	if req.Quantity, err = parseAmount(b.Quantity, "quantity"); err != nil {
		return req, err
	}
	if req.UnitRate, err = parseAmount(b.UnitRate, "unit_rate"); err != nil {
		return req, err
	}
	if req.VATPct, err = parseAmount(b.VATPct, "vat_percentage"); err != nil {
		return req, err
	}
	if req.Discount, err = parseAmount(b.Discount, "discount"); err != nil {
		return req, err
	}
	if req.InvoiceDate, err = parseDateField(b.InvoiceDate, "invoice_date"); err != nil {
		return req, err
	}
	if req.DueDate, err = parseDateField(b.DueDate, "due_date"); err != nil {
		return req, err
	}
	req.CustomerName = b.CustomerName
	req.ProductName = b.ProductName
	return req, nil
}

// createSalesInvoice handles POST /api/sales-invoices.
func (h *Handler) createSalesInvoice(w http.ResponseWriter, r *http.Request) {
	var body salesInvoiceBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := h.svc.CreateSalesInvoice(r.Context(), req, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Invoice)
}

// getSalesInvoice handles GET /api/sales-invoices/{id}.
func (h *Handler) getSalesInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetSalesInvoice(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoice)
}

// listSalesInvoices handles GET /api/sales-invoices?status=&customer=.
func (h *Handler) listSalesInvoices(w http.ResponseWriter, r *http.Request) {
	status := core.InvoiceStatus(r.URL.Query().Get("status"))
	customer := r.URL.Query().Get("customer")
	result, err := h.svc.ListSalesInvoices(r.Context(), status, customer)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoices)
}

// updateSalesInvoice handles PUT /api/sales-invoices/{id}.
func (h *Handler) updateSalesInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var body salesInvoiceBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := h.svc.UpdateSalesInvoice(r.Context(), id, req, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoice)
}

// deleteSalesInvoice handles DELETE /api/sales-invoices/{id}.
// Body: { password } — the acting user re-enters an admin password.
func (h *Handler) deleteSalesInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.svc.DeleteSalesInvoice(r.Context(), id, actorID(r), body.Password); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type purchaseInvoiceBody struct {
	SupplierName  string `json:"supplier_name"`
	ProductName   string `json:"product_name"`
	Quantity      string `json:"quantity"`
	UnitRate      string `json:"unit_rate"`
	Transport     string `json:"transport"`
	Freight       string `json:"freight"`
	EForm         string `json:"e_form"`
	Miscellaneous string `json:"miscellaneous"`
	TransferRate  string `json:"transfer_rate"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`
}

func (b purchaseInvoiceBody) toRequest() (app.PurchaseInvoiceRequest, error) {
	var req app.PurchaseInvoiceRequest
	fields := []struct {
		dst  *decimal.Decimal
		src  string
		name string
	}{
		{&req.Quantity, b.Quantity, "quantity"},
		{&req.UnitRate, b.UnitRate, "unit_rate"},
		{&req.Transport, b.Transport, "transport"},
		{&req.Freight, b.Freight, "freight"},
		{&req.EForm, b.EForm, "e_form"},
		{&req.Miscellaneous, b.Miscellaneous, "miscellaneous"},
		{&req.TransferRate, b.TransferRate, "transfer_rate"},
	}
	for _, f := range fields {
		v, err := parseAmount(f.src, f.name)
		if err != nil {
			return req, err
		}
		*f.dst = v
	}
	var err error
	if req.InvoiceDate, err = parseDateField(b.InvoiceDate, "invoice_date"); err != nil {
		return req, err
	}
	if req.DueDate, err = parseDateField(b.DueDate, "due_date"); err != nil {
		return req, err
	}
	req.SupplierName = b.SupplierName
	req.ProductName = b.ProductName
	return req, nil
}

// createPurchaseInvoice handles POST /api/purchases.
func (h *Handler) createPurchaseInvoice(w http.ResponseWriter, r *http.Request) {
	var body purchaseInvoiceBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := h.svc.CreatePurchaseInvoice(r.Context(), req, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Invoice)
}

// getPurchaseInvoice handles GET /api/purchases/{id}.
func (h *Handler) getPurchaseInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetPurchaseInvoice(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoice)
}

// listPurchaseInvoices handles GET /api/purchases?status=&supplier=.
func (h *Handler) listPurchaseInvoices(w http.ResponseWriter, r *http.Request) {
	status := core.InvoiceStatus(r.URL.Query().Get("status"))
	supplier := r.URL.Query().Get("supplier")
	result, err := h.svc.ListPurchaseInvoices(r.Context(), status, supplier)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoices)
}

// updatePurchaseInvoice handles PUT /api/purchases/{id}.
func (h *Handler) updatePurchaseInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var body purchaseInvoiceBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := h.svc.UpdatePurchaseInvoice(r.Context(), id, req, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoice)
}

// deletePurchaseInvoice handles DELETE /api/purchases/{id}. Body: { password }.
func (h *Handler) deletePurchaseInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.svc.DeletePurchaseInvoice(r.Context(), id, actorID(r), body.Password); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type dualCurrencyInvoiceBody struct {
	PartyName      string `json:"party_name"`
	Agent          string `json:"agent"`
	ContainerNo    string `json:"container_no"`
	AmountPKR      string `json:"amount_pkr"`
	ConversionRate string `json:"conversion_rate"`
	InvoiceDate    string `json:"invoice_date"`
	DueDate        string `json:"due_date"`
}

func (b dualCurrencyInvoiceBody) toRequest() (app.DualCurrencyInvoiceRequest, error) {
	var req app.DualCurrencyInvoiceRequest
	var err error
	if req.AmountPKR, err = parseAmount(b.AmountPKR, "amount_pkr"); err != nil {
		return req, err
	}
	if req.ConversionRate, err = parseAmount(b.ConversionRate, "conversion_rate"); err != nil {
		return req, err
	}
	if req.InvoiceDate, err = parseDateField(b.InvoiceDate, "invoice_date"); err != nil {
		return req, err
	}
	if req.DueDate, err = parseDateField(b.DueDate, "due_date"); err != nil {
		return req, err
	}
	req.PartyName = b.PartyName
	req.Agent = b.Agent
	req.ContainerNo = b.ContainerNo
	return req, nil
}

// createDualCurrencyInvoice handles POST /api/invoices/{kind}.
func (h *Handler) createDualCurrencyInvoice(w http.ResponseWriter, r *http.Request) {
	kind, err := urlKind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var body dualCurrencyInvoiceBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := h.svc.CreateDualCurrencyInvoice(r.Context(), kind, req, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Invoice)
}

// getDualCurrencyInvoice handles GET /api/invoices/{kind}/{id}.
func (h *Handler) getDualCurrencyInvoice(w http.ResponseWriter, r *http.Request) {
	kind, err := urlKind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetDualCurrencyInvoice(r.Context(), kind, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoice)
}

// listDualCurrencyInvoices handles GET /api/invoices/{kind}?status=&party=.
func (h *Handler) listDualCurrencyInvoices(w http.ResponseWriter, r *http.Request) {
	kind, err := urlKind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	status := core.InvoiceStatus(r.URL.Query().Get("status"))
	party := r.URL.Query().Get("party")
	result, err := h.svc.ListDualCurrencyInvoices(r.Context(), kind, status, party)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoices)
}

// updateDualCurrencyInvoice handles PUT /api/invoices/{kind}/{id}.
func (h *Handler) updateDualCurrencyInvoice(w http.ResponseWriter, r *http.Request) {
	kind, err := urlKind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var body dualCurrencyInvoiceBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := h.svc.UpdateDualCurrencyInvoice(r.Context(), kind, id, req, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Invoice)
}

// deleteDualCurrencyInvoice handles DELETE /api/invoices/{kind}/{id}. Body: { password }.
func (h *Handler) deleteDualCurrencyInvoice(w http.ResponseWriter, r *http.Request) {
	kind, err := urlKind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.svc.DeleteDualCurrencyInvoice(r.Context(), kind, id, actorID(r), body.Password); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseAmount parses an optional decimal string field; empty yields zero.
func parseAmount(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, core.NewValidationError(field, "invalid decimal "+s)
	}
	return v, nil
}

// parseDateField parses an optional YYYY-MM-DD field with a named error.
func parseDateField(s, field string) (time.Time, error) {
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, core.NewValidationError(field, "expected YYYY-MM-DD")
	}
	return t, nil
}
