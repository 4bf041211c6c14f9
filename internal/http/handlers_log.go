package http

import (
	"log/slog"
	"net/http"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/services"
)

// handleBudgetLog returns the audit trail, newest first. Filtering happens
// in memory after the (cached) load: the unfiltered per-user list is what
// gets cached so every filter combination hits the same entry.
func (s *Server) handleBudgetLog(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLogFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	uid := userID(r)
	entries, found := s.logCache.Get(uid)
	if !found {
		entries, err = s.auditLog.ListLogEntries(r.Context(), uid)
		if err != nil {
			slog.ErrorContext(r.Context(), "List log entries failed", "error", err)
			writeError(w, err)
			return
		}
		s.logCache.Set(uid, entries)
	} else {
		slog.DebugContext(r.Context(), "Budget log cache hit", "user_id", uid)
	}

	filtered := services.FilterBudgetLog(entries, filter)
	if filtered == nil {
		filtered = []core.BudgetLogEntry{}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) invalidateLogCache(userID string) {
	s.logCache.Delete(userID)
}
