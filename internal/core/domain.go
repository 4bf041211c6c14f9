package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Daily   Recurrence = "daily"
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	BillUnpaid  BillStatus = "unpaid"
	BillPending BillStatus = "pending"
	BillPaid    BillStatus = "paid"
)

// CategoryAll is the sentinel that makes a budget aggregate every expense
// category instead of a single one.
const CategoryAll Category = "All Categories"

type (
	Recurrence      string
	TransactionType string
	BillStatus      string
	Category        string

	Transaction struct {
		ID       uuid.UUID       `json:"id"`
		UserID   string          `json:"userId"`
		Date     time.Time       `json:"date"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		// FromRate and ToRate are captured once at creation time and are
		// never recomputed, even if the market rate has since moved.
		FromRate decimal.Decimal `json:"fromRate"`
		ToRate   decimal.Decimal `json:"toRate"`
		Category Category        `json:"category"`
		Type     TransactionType `json:"type"`

		IsRecurring        bool       `json:"isRecurring"`
		RecurringFrequency Recurrence `json:"recurringFrequency,omitempty"`
		EndDate            time.Time  `json:"endDate"`
		TemplateID         string     `json:"templateId,omitempty"`

		// Bill fields. A transaction with a non-zero DueDate is a bill.
		DueDate       time.Time  `json:"dueDate"`
		BillStatus    BillStatus `json:"billStatus,omitempty"`
		BillFrequency Recurrence `json:"billFrequency,omitempty"`
		// ReminderDays < 0 means no reminder window is configured.
		// Zero is a valid window (remind on the due date itself).
		ReminderDays int `json:"reminderDays"`
	}

	Budget struct {
		ID         uuid.UUID       `json:"id"`
		UserID     string          `json:"userId"`
		Title      string          `json:"title"`
		Amount     decimal.Decimal `json:"amount"`
		Currency   string          `json:"currency"`
		Recurrence Recurrence      `json:"recurrence"`
		// StartDate anchors every recurrence period: periods are whole
		// recurrence units offset from it, never from "today".
		StartDate time.Time `json:"startDate"`
		Category  Category  `json:"category"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidRecurrence   = errors.New("invalid recurrence")
	ErrInvalidBudgetAmount = errors.New("budget amount must be positive")
	ErrMalformedDate       = errors.New("malformed date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyTitle          = errors.New("empty budget title")
	ErrEmptyCategory       = errors.New("empty category")
	ErrEmptyCurrency       = errors.New("empty currency")
	ErrInvalidBillStatus   = errors.New("invalid bill status")
	ErrBillTransition      = errors.New("bill status transition not allowed")
	ErrNotABill            = errors.New("transaction is not a bill")
)

// Valid reports whether r is one of the four supported recurrence units.
func (r Recurrence) Valid() bool {
	switch r {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Matches reports whether a budget scoped to category c covers other.
// The CategoryAll sentinel covers every category.
func (c Category) Matches(other Category) bool {
	return c == CategoryAll || c == other
}

// CanTransitionTo reports whether the bill status state machine allows
// moving from s to next. Paid is terminal; "overdue" is a derived view,
// never a stored status, so it is not a legal target here.
func (s BillStatus) CanTransitionTo(next BillStatus) bool {
	switch s {
	case BillUnpaid:
		return next == BillPending || next == BillPaid
	case BillPending:
		return next == BillPaid
	default:
		return false
	}
}

func (s BillStatus) Valid() bool {
	switch s {
	case BillUnpaid, BillPending, BillPaid:
		return true
	}
	return false
}

// IsBill reports whether the transaction carries bill semantics.
func (t Transaction) IsBill() bool {
	return !t.DueDate.IsZero()
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrMalformedDate
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Currency) == "" {
		return ErrEmptyCurrency
	}
	if strings.TrimSpace(string(t.Category)) == "" {
		return ErrEmptyCategory
	}
	if t.Type != Income && t.Type != Expense {
		return errors.New("transaction type must be income or expense")
	}
	if t.IsRecurring && !t.RecurringFrequency.Valid() {
		return ErrInvalidRecurrence
	}
	if t.IsBill() {
		if !t.BillStatus.Valid() {
			return ErrInvalidBillStatus
		}
		if t.BillFrequency != "" && !t.BillFrequency.Valid() {
			return ErrInvalidRecurrence
		}
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidBudgetAmount
	}
	if strings.TrimSpace(b.Currency) == "" {
		return ErrEmptyCurrency
	}
	if !b.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if b.StartDate.IsZero() {
		return ErrMalformedDate
	}
	if strings.TrimSpace(string(b.Category)) == "" {
		return ErrEmptyCategory
	}
	return nil
}
