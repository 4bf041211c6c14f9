package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

type budgetRequest struct {
	Title      string `json:"title"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Recurrence string `json:"recurrence"`
	StartDate  string `json:"startDate"`
	Category   string `json:"category"`
	Reason     string `json:"reason"`
}

func (req budgetRequest) toBudget(userID string) (core.Budget, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	var startDate time.Time
	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return core.Budget{}, core.ErrMalformedDate
		}
	}
	return core.Budget{
		UserID:     userID,
		Title:      req.Title,
		Amount:     amount,
		Currency:   req.Currency,
		Recurrence: core.Recurrence(req.Recurrence),
		StartDate:  startDate,
		Category:   core.Category(req.Category),
	}, nil
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgetReader.ListBudgets(r.Context(), userID(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "List budgets failed", "error", err)
		writeError(w, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	b, err := req.toBudget(userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.budgets.Create(r.Context(), b, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateLogCache(created.UserID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid budget id"})
		return
	}

	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	b, err := req.toBudget(userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	b.ID = id

	updated, err := s.budgets.Update(r.Context(), b, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateLogCache(updated.UserID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid budget id"})
		return
	}

	if err := s.budgets.Delete(r.Context(), id, r.URL.Query().Get("reason")); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateLogCache(userID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.reminders.BudgetProgressAll(r.Context(), userID(r), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget progress failed", "error", err)
		writeError(w, err)
		return
	}
	if progress == nil {
		progress = []core.BudgetProgress{}
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	uid := userID(r)

	budgetReminders, err := s.reminders.BudgetReminders(r.Context(), uid, now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget reminders failed", "error", err)
		writeError(w, err)
		return
	}
	buckets, err := s.reminders.Bills(r.Context(), uid, now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Bill reminders failed", "error", err)
		writeError(w, err)
		return
	}

	if budgetReminders == nil {
		budgetReminders = []core.BudgetReminder{}
	}
	bills := buckets.Reminders
	if bills == nil {
		bills = []core.BillReminder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"budgets": budgetReminders,
		"bills":   bills,
	})
}
