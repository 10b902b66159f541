package web

import (
	"net/http"
	"time"

	"tradebooks/internal/app"
	"tradebooks/internal/core"
)

// appendCashEntry handles POST /api/cashbook.
// Body: { entry_date?, direction, amount, description, counterparty?, method }
func (h *Handler) appendCashEntry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EntryDate    string `json:"entry_date"`
		Direction    string `json:"direction"`
		Amount       string `json:"amount"`
		Description  string `json:"description"`
		Counterparty string `json:"counterparty"`
		Method       string `json:"method"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	amount, err := parseAmount(body.Amount, "amount")
	if err != nil {
		respondError(w, r, err)
		return
	}
	entryDate, err := parseDateField(body.EntryDate, "entry_date")
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.svc.AppendCashEntry(r.Context(), app.CashEntryRequest{
		EntryDate:    entryDate,
		Direction:    core.CashDirection(body.Direction),
		Amount:       amount,
		Description:  body.Description,
		Counterparty: body.Counterparty,
		Method:       core.PaymentMethod(body.Method),
	}, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Entry)
}

// getDayBook handles GET /api/cashbook/daybook?date=YYYY-MM-DD.
// An absent date means today.
func (h *Handler) getDayBook(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, r, "invalid date (expected YYYY-MM-DD)", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		date = parsed
	}
	book, err := h.svc.GetDayBook(r.Context(), date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, book)
}

// deleteCashEntry handles DELETE /api/cashbook/{id}.
func (h *Handler) deleteCashEntry(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, "invalid entry ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteCashEntry(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
