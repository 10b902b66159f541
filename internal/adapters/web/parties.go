package web

import (
	"net/http"

	"tradebooks/internal/app"
)

type partyBody struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (b partyBody) toRequest() app.PartyRequest {
	return app.PartyRequest{Name: b.Name, Phone: b.Phone, Address: b.Address}
}

// createCustomer handles POST /api/customers.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var body partyBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.CreateCustomer(r.Context(), body.toRequest())
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Customer)
}

// listCustomers handles GET /api/customers?search=.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Customers)
}

// updateCustomer handles PUT /api/customers/{id}.
func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid customer ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var body partyBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.UpdateCustomer(r.Context(), id, body.toRequest())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Customer)
}

// deactivateCustomer handles DELETE /api/customers/{id} — a soft delete.
func (h *Handler) deactivateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid customer ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeactivateCustomer(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createSupplier handles POST /api/suppliers.
func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var body partyBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.CreateSupplier(r.Context(), body.toRequest())
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Supplier)
}

// listSuppliers handles GET /api/suppliers?search=.
func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSuppliers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Suppliers)
}

// updateSupplier handles PUT /api/suppliers/{id}.
func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid supplier ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var body partyBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.UpdateSupplier(r.Context(), id, body.toRequest())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Supplier)
}

// deactivateSupplier handles DELETE /api/suppliers/{id} — a soft delete.
func (h *Handler) deactivateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid supplier ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeactivateSupplier(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
