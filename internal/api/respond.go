package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roslynlu/TandaPay/internal/auth"
	"github.com/roslynlu/TandaPay/internal/storage"
	"github.com/roslynlu/TandaPay/internal/tanda"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to an HTTP status and writes it as JSON.
// Every error carries its full message; the core guarantees no partial
// state change accompanied it.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tanda.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, tanda.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tanda.ErrInvariantViolation),
		errors.Is(err, tanda.ErrAmountMismatch),
		errors.Is(err, tanda.ErrClaimTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, tanda.ErrInvalidPeriodState),
		errors.Is(err, tanda.ErrDuplicatePayment),
		errors.Is(err, tanda.ErrIncompleteCollection),
		errors.Is(err, tanda.ErrPeriodNotElapsed),
		errors.Is(err, tanda.ErrDuplicateClaim),
		errors.Is(err, tanda.ErrAlreadyReviewed),
		errors.Is(err, tanda.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
