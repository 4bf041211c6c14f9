package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
)

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

type (
	Severity   string
	ChangeType string

	// BudgetProgress is derived from the current transaction set on every
	// read and is never persisted or cached across requests.
	BudgetProgress struct {
		BudgetID      uuid.UUID       `json:"budgetId"`
		PeriodStart   time.Time       `json:"periodStart"`
		PeriodEnd     time.Time       `json:"periodEnd"`
		TotalSpent    decimal.Decimal `json:"totalSpent"`
		Remaining     decimal.Decimal `json:"remaining"`
		Progress      float64         `json:"progress"`
		IsOverBudget  bool            `json:"isOverBudget"`
		ExpensesCount int             `json:"expensesCount"`
	}

	BudgetReminder struct {
		ID       uuid.UUID `json:"id"`
		SourceID uuid.UUID `json:"sourceId"`
		Severity Severity  `json:"severity"`
		Title    string    `json:"title"`
		Message  string    `json:"message"`
		Progress float64   `json:"progress"`
	}

	BillReminder struct {
		ID       uuid.UUID `json:"id"`
		SourceID uuid.UUID `json:"sourceId"`
		Severity Severity  `json:"severity"`
		Title    string    `json:"title"`
		Message  string    `json:"message"`
		DaysLeft int       `json:"daysLeft"`
	}

	// BillState is the derived classification of a bill against "now".
	// Overdue is a view, never a stored status.
	BillState struct {
		DaysLeft    int  `json:"daysLeft"`
		Paid        bool `json:"paid"`
		Overdue     bool `json:"overdue"`
		Upcoming    bool `json:"upcoming"`
		ReminderDue bool `json:"reminderDue"`
	}

	BillBuckets struct {
		Upcoming  []Transaction  `json:"upcoming"`
		Overdue   []Transaction  `json:"overdue"`
		Reminders []BillReminder `json:"reminders"`
	}

	FieldChange struct {
		Field    string `json:"field"`
		OldValue any    `json:"oldValue"`
		NewValue any    `json:"newValue"`
	}

	// BudgetLogEntry is one immutable audit record per budget mutation.
	BudgetLogEntry struct {
		ID         uuid.UUID     `json:"id"`
		BudgetID   uuid.UUID     `json:"budgetId"`
		UserID     string        `json:"userId"`
		ChangeType ChangeType    `json:"changeType"`
		Changes    []FieldChange `json:"changes"`
		Reason     string        `json:"reason"`
		Timestamp  time.Time     `json:"timestamp"`
	}

	// LogFilter holds the optional audit-log predicates. Kinds are ANDed
	// together; within ChangeTypes and Categories any listed value matches.
	// The zero value filters nothing.
	LogFilter struct {
		ChangeTypes []ChangeType
		Categories  []string
		SearchQuery string
		From        time.Time
		To          time.Time
	}
)

// IsZero reports whether the filter has no predicates at all.
func (f LogFilter) IsZero() bool {
	return len(f.ChangeTypes) == 0 && len(f.Categories) == 0 &&
		f.SearchQuery == "" && f.From.IsZero() && f.To.IsZero()
}
