package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

type transactionRequest struct {
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	FromRate string `json:"fromRate"`
	ToRate   string `json:"toRate"`
	Category string `json:"category"`
	Type     string `json:"type"`

	IsRecurring        bool   `json:"isRecurring"`
	RecurringFrequency string `json:"recurringFrequency"`
	EndDate            string `json:"endDate"`

	DueDate       string `json:"dueDate"`
	BillStatus    string `json:"billStatus"`
	BillFrequency string `json:"billFrequency"`
	ReminderDays  *int   `json:"reminderDays"`
}

func (req transactionRequest) toTransaction(userID string) (core.Transaction, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	fromRate, err := core.ParseRate(req.FromRate)
	if err != nil {
		return core.Transaction{}, err
	}
	toRate, err := core.ParseRate(req.ToRate)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		UserID:             userID,
		Amount:             amount,
		Currency:           req.Currency,
		FromRate:           fromRate,
		ToRate:             toRate,
		Category:           core.Category(req.Category),
		Type:               core.TransactionType(req.Type),
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: core.Recurrence(req.RecurringFrequency),
		BillStatus:         core.BillStatus(req.BillStatus),
		BillFrequency:      core.Recurrence(req.BillFrequency),
		ReminderDays:       -1,
	}
	if req.ReminderDays != nil {
		tx.ReminderDays = *req.ReminderDays
	}

	for _, field := range []struct {
		value string
		dst   *time.Time
	}{
		{req.Date, &tx.Date},
		{req.EndDate, &tx.EndDate},
		{req.DueDate, &tx.DueDate},
	} {
		if field.value == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", field.value)
		if err != nil {
			return core.Transaction{}, core.ErrMalformedDate
		}
		*field.dst = parsed
	}

	// A bill without an explicit status starts unpaid.
	if tx.IsBill() && tx.BillStatus == "" {
		tx.BillStatus = core.BillUnpaid
	}

	return tx, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context(), userID(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeError(w, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tx, err := req.toTransaction(userID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.reminders.Bills(r.Context(), userID(r), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Classify bills failed", "error", err)
		writeError(w, err)
		return
	}
	if buckets.Upcoming == nil {
		buckets.Upcoming = []core.Transaction{}
	}
	if buckets.Overdue == nil {
		buckets.Overdue = []core.Transaction{}
	}
	if buckets.Reminders == nil {
		buckets.Reminders = []core.BillReminder{}
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handleBillStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid transaction id"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	status := core.BillStatus(req.Status)
	if !status.Valid() {
		writeError(w, core.ErrInvalidBillStatus)
		return
	}

	if err := s.transactions.SetBillStatus(r.Context(), id, status); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid transaction id"})
		return
	}

	if err := s.transactions.MarkBillPaid(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
