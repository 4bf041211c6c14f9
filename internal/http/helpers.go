package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes. Validation and
// malformed-input failures are 422, missing rows 404, illegal bill
// transitions 409, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrBillTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case isValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidRecurrence,
		core.ErrInvalidBudgetAmount,
		core.ErrMalformedDate,
		core.ErrInvalidAmount,
		core.ErrEmptyTitle,
		core.ErrEmptyCategory,
		core.ErrEmptyCurrency,
		core.ErrInvalidBillStatus,
		core.ErrNotABill,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// userID scopes every request to a user. There is no authentication layer;
// the caller identifies itself through a header.
func userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	return "default"
}

// parseLogFilter builds the audit-log filter from query parameters.
// Dates must be YYYY-MM-DD; anything else is rejected rather than quietly
// replaced with today.
func parseLogFilter(r *http.Request) (core.LogFilter, error) {
	q := r.URL.Query()
	var filter core.LogFilter

	for _, v := range splitParams(q["changeType"]) {
		filter.ChangeTypes = append(filter.ChangeTypes, core.ChangeType(v))
	}
	filter.Categories = splitParams(q["category"])
	filter.SearchQuery = strings.TrimSpace(q.Get("q"))

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return core.LogFilter{}, fmt.Errorf("%w: from %q", core.ErrMalformedDate, v)
		}
		filter.From = from
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return core.LogFilter{}, fmt.Errorf("%w: to %q", core.ErrMalformedDate, v)
		}
		// The bound is a whole day, inclusive.
		filter.To = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return filter, nil
}

// splitParams accepts both repeated parameters and comma-separated lists.
func splitParams(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
