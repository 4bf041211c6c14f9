package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validBudget() Budget {
	return Budget{
		Title:      "Groceries",
		Amount:     decimal.NewFromInt(500),
		Currency:   "EUR",
		Recurrence: Monthly,
		StartDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:   "Groceries",
	}
}

func TestBudget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Budget)
		wantErr error
	}{
		{
			name:   "valid budget",
			mutate: func(b *Budget) {},
		},
		{
			name:    "zero amount rejected",
			mutate:  func(b *Budget) { b.Amount = decimal.Zero },
			wantErr: ErrInvalidBudgetAmount,
		},
		{
			name:    "negative amount rejected",
			mutate:  func(b *Budget) { b.Amount = decimal.NewFromInt(-10) },
			wantErr: ErrInvalidBudgetAmount,
		},
		{
			name:    "unknown recurrence rejected",
			mutate:  func(b *Budget) { b.Recurrence = "biweekly" },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "zero start date rejected",
			mutate:  func(b *Budget) { b.StartDate = time.Time{} },
			wantErr: ErrMalformedDate,
		},
		{
			name:    "empty title rejected",
			mutate:  func(b *Budget) { b.Title = "  " },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "empty category rejected",
			mutate:  func(b *Budget) { b.Category = "" },
			wantErr: ErrEmptyCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBudget()
			tt.mutate(&b)
			err := b.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategory_Matches(t *testing.T) {
	tests := []struct {
		name   string
		budget Category
		tx     Category
		want   bool
	}{
		{"exact match", "Groceries", "Groceries", true},
		{"mismatch", "Groceries", "Transport", false},
		{"all categories matches anything", CategoryAll, "Transport", true},
		{"all categories matches itself", CategoryAll, CategoryAll, true},
		{"specific does not match sentinel", "Groceries", CategoryAll, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.budget.Matches(tt.tx); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.tx, got, tt.want)
			}
		})
	}
}

func TestBillStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to BillStatus
		want     bool
	}{
		{BillUnpaid, BillPending, true},
		{BillUnpaid, BillPaid, true},
		{BillPending, BillPaid, true},
		{BillPaid, BillUnpaid, false},
		{BillPaid, BillPending, false},
		{BillPending, BillUnpaid, false},
		{BillUnpaid, "overdue", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		Date:         time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.NewFromInt(120),
		Currency:     "EUR",
		Category:     "Groceries",
		Type:         Expense,
		ReminderDays: -1,
	}

	t.Run("valid transaction", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("zero date rejected", func(t *testing.T) {
		tx := valid
		tx.Date = time.Time{}
		if !errors.Is(tx.Validate(), ErrMalformedDate) {
			t.Error("expected ErrMalformedDate")
		}
	})

	t.Run("bill without status rejected", func(t *testing.T) {
		tx := valid
		tx.DueDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		if !errors.Is(tx.Validate(), ErrInvalidBillStatus) {
			t.Error("expected ErrInvalidBillStatus")
		}
	})

	t.Run("recurring without frequency rejected", func(t *testing.T) {
		tx := valid
		tx.IsRecurring = true
		if !errors.Is(tx.Validate(), ErrInvalidRecurrence) {
			t.Error("expected ErrInvalidRecurrence")
		}
	})
}
