package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tradebooks/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors to HTTP statuses with stable codes:
// validation 400, overpayment 422, already settled / version conflict 409,
// unauthorized reversal 403. Anything else is a 500 unless it reads like a
// lookup miss.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *core.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, r, vErr.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, core.ErrOverpayment):
		writeError(w, r, err.Error(), "OVERPAYMENT", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrAlreadySettled):
		writeError(w, r, err.Error(), "ALREADY_SETTLED", http.StatusConflict)
	case errors.Is(err, core.ErrVersionConflict):
		writeError(w, r, err.Error(), "VERSION_CONFLICT", http.StatusConflict)
	case errors.Is(err, core.ErrUnauthorizedReversal):
		writeError(w, r, err.Error(), "FORBIDDEN", http.StatusForbidden)
	case strings.Contains(err.Error(), "not found"):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
