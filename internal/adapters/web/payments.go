package web

import (
	"net/http"

	"tradebooks/internal/app"
	"tradebooks/internal/core"
)

// recordPayment handles POST /api/invoices/{kind}/{id}/payments.
// Body: { amount, payment_type, payment_method, reference?, notes?, payment_date? }
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	kind, err := urlKind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	invoiceID, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var body struct {
		Amount      string `json:"amount"`
		Type        string `json:"payment_type"`
		Method      string `json:"payment_method"`
		Reference   string `json:"reference"`
		Notes       string `json:"notes"`
		PaymentDate string `json:"payment_date"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	amount, err := parseAmount(body.Amount, "amount")
	if err != nil {
		respondError(w, r, err)
		return
	}
	paymentDate, err := parseDateField(body.PaymentDate, "payment_date")
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.svc.RecordPayment(r.Context(), kind, invoiceID, app.PaymentRequest{
		Amount:      amount,
		Type:        core.PaymentType(body.Type),
		Method:      core.PaymentMethod(body.Method),
		Reference:   body.Reference,
		Notes:       body.Notes,
		PaymentDate: paymentDate,
	}, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Payment)
}

// reversePayment handles DELETE /api/invoices/{kind}/{id}/payments/{paymentID}.
// Body: { password } — the acting user re-enters an admin password.
func (h *Handler) reversePayment(w http.ResponseWriter, r *http.Request) {
	kind, err := urlKind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	invoiceID, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	paymentID, err := urlID(r, "paymentID")
	if err != nil {
		writeError(w, r, "invalid payment ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if err := h.svc.ReversePayment(r.Context(), kind, invoiceID, paymentID, actorID(r), body.Password); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listPayments handles GET /api/invoices/{kind}/{id}/payments.
func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	kind, err := urlKind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	invoiceID, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid invoice ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.ListPayments(r.Context(), kind, invoiceID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Payments)
}
