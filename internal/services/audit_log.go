package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// DiffBudgets produces the audit entry for one budget mutation.
//
// Create and delete emit a single synthetic "budget" change holding the full
// snapshot. Update emits one change per field whose value actually differs;
// when nothing changed it returns nil so a no-op update never touches the
// audit log. Amounts compare by decimal equality and dates by time equality,
// so 500 vs 500.00 is unchanged while equal-looking values of different
// kinds are not.
func DiffBudgets(prev, next *core.Budget, userID, reason string, now time.Time) *core.BudgetLogEntry {
	switch {
	case prev == nil && next == nil:
		return nil
	case prev == nil:
		return newLogEntry(next.ID, userID, core.ChangeCreated, reason, now,
			[]core.FieldChange{{Field: "budget", OldValue: nil, NewValue: *next}})
	case next == nil:
		return newLogEntry(prev.ID, userID, core.ChangeDeleted, reason, now,
			[]core.FieldChange{{Field: "budget", OldValue: *prev, NewValue: nil}})
	}

	var changes []core.FieldChange
	if prev.Title != next.Title {
		changes = append(changes, core.FieldChange{Field: "title", OldValue: prev.Title, NewValue: next.Title})
	}
	if !prev.Amount.Equal(next.Amount) {
		changes = append(changes, core.FieldChange{Field: "amount", OldValue: prev.Amount, NewValue: next.Amount})
	}
	if prev.Currency != next.Currency {
		changes = append(changes, core.FieldChange{Field: "currency", OldValue: prev.Currency, NewValue: next.Currency})
	}
	if prev.Recurrence != next.Recurrence {
		changes = append(changes, core.FieldChange{Field: "recurrence", OldValue: prev.Recurrence, NewValue: next.Recurrence})
	}
	if !prev.StartDate.Equal(next.StartDate) {
		changes = append(changes, core.FieldChange{Field: "startDate", OldValue: prev.StartDate, NewValue: next.StartDate})
	}
	if prev.Category != next.Category {
		changes = append(changes, core.FieldChange{Field: "category", OldValue: prev.Category, NewValue: next.Category})
	}

	if len(changes) == 0 {
		return nil
	}
	return newLogEntry(next.ID, userID, core.ChangeUpdated, reason, now, changes)
}

func newLogEntry(budgetID uuid.UUID, userID string, changeType core.ChangeType, reason string, now time.Time, changes []core.FieldChange) *core.BudgetLogEntry {
	return &core.BudgetLogEntry{
		ID:         uuid.New(),
		BudgetID:   budgetID,
		UserID:     userID,
		ChangeType: changeType,
		Changes:    changes,
		Reason:     reason,
		Timestamp:  now,
	}
}
