package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tradebooks/internal/app"
)

type containerStatementBody struct {
	ContainerNo   string `json:"container_no"`
	StatementDate string `json:"statement_date"`
	CommissionPct string `json:"commission_percentage"`
	Products      []struct {
		Product   string `json:"product"`
		Quantity  string `json:"quantity"`
		UnitPrice string `json:"unit_price"`
	} `json:"products"`
	Expenses []struct {
		Description string `json:"description"`
		Amount      string `json:"amount"`
	} `json:"expenses"`
}

func (b containerStatementBody) toRequest() (app.ContainerStatementRequest, error) {
	var req app.ContainerStatementRequest
	var err error
	req.ContainerNo = b.ContainerNo
	if req.StatementDate, err = parseDateField(b.StatementDate, "statement_date"); err != nil {
		return req, err
	}
	if req.CommissionPct, err = parseAmount(b.CommissionPct, "commission_percentage"); err != nil {
		return req, err
	}
	for _, p := range b.Products {
		line := app.ProductLineInput{Product: p.Product}
		if line.Quantity, err = parseAmount(p.Quantity, "quantity"); err != nil {
			return req, err
		}
		if line.UnitPrice, err = parseAmount(p.UnitPrice, "unit_price"); err != nil {
			return req, err
		}
		req.Products = append(req.Products, line)
	}
	for _, e := range b.Expenses {
		exp := app.ExpenseRequest{Description: e.Description}
		if exp.Amount, err = parseAmount(e.Amount, "amount"); err != nil {
			return req, err
		}
		req.Expenses = append(req.Expenses, exp)
	}
	return req, nil
}

// saveContainerStatement handles POST /api/containers — creates or replaces
// the statement for a container number.
func (h *Handler) saveContainerStatement(w http.ResponseWriter, r *http.Request) {
	var body containerStatementBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := body.toRequest()
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := h.svc.SaveContainerStatement(r.Context(), req, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Statement)
}

// getContainerStatement handles GET /api/containers/{containerNo}.
func (h *Handler) getContainerStatement(w http.ResponseWriter, r *http.Request) {
	containerNo := chi.URLParam(r, "containerNo")
	result, err := h.svc.GetContainerStatement(r.Context(), containerNo)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Statement)
}

// listContainerStatements handles GET /api/containers.
func (h *Handler) listContainerStatements(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListContainerStatements(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Statements)
}

// addContainerExpense handles POST /api/containers/{containerNo}/expenses.
// Body: { description, amount }
func (h *Handler) addContainerExpense(w http.ResponseWriter, r *http.Request) {
	containerNo := chi.URLParam(r, "containerNo")
	var body struct {
		Description string `json:"description"`
		Amount      string `json:"amount"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	amount, err := parseAmount(body.Amount, "amount")
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := h.svc.AddContainerExpense(r.Context(), containerNo,
		app.ExpenseRequest{Description: body.Description, Amount: amount}, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Statement)
}

// removeContainerExpense handles DELETE /api/containers/{containerNo}/expenses/{expenseID}.
// Auto-generated commission lines cannot be removed.
func (h *Handler) removeContainerExpense(w http.ResponseWriter, r *http.Request) {
	containerNo := chi.URLParam(r, "containerNo")
	expenseID, err := urlID(r, "expenseID")
	if err != nil {
		writeError(w, r, "invalid expense ID", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.RemoveContainerExpense(r.Context(), containerNo, expenseID, actorID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result.Statement)
}

// deleteContainerStatement handles DELETE /api/containers/{containerNo}.
func (h *Handler) deleteContainerStatement(w http.ResponseWriter, r *http.Request) {
	containerNo := chi.URLParam(r, "containerNo")
	if err := h.svc.DeleteContainerStatement(r.Context(), containerNo); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
