package services

import (
	"testing"
	"time"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

func TestDiffBudgets_Create(t *testing.T) {
	b := testBudget()
	now := date(2024, time.May, 1)

	entry := DiffBudgets(nil, &b, "u1", "initial setup", now)
	if entry == nil {
		t.Fatal("DiffBudgets(nil, next) = nil, want a created entry")
	}
	if entry.ChangeType != core.ChangeCreated {
		t.Errorf("ChangeType = %s, want created", entry.ChangeType)
	}
	if entry.BudgetID != b.ID {
		t.Errorf("BudgetID = %s, want %s", entry.BudgetID, b.ID)
	}
	if len(entry.Changes) != 1 {
		t.Fatalf("Changes = %d, want 1 synthetic budget change", len(entry.Changes))
	}
	c := entry.Changes[0]
	if c.Field != "budget" || c.OldValue != nil {
		t.Errorf("change = %+v, want field budget with nil old value", c)
	}
	if snap, ok := c.NewValue.(core.Budget); !ok || snap.ID != b.ID {
		t.Errorf("NewValue = %#v, want the full budget snapshot", c.NewValue)
	}
	if entry.Reason != "initial setup" {
		t.Errorf("Reason = %q, want %q", entry.Reason, "initial setup")
	}
}

func TestDiffBudgets_Delete(t *testing.T) {
	b := testBudget()

	entry := DiffBudgets(&b, nil, "u1", "", date(2024, time.May, 1))
	if entry == nil {
		t.Fatal("DiffBudgets(prev, nil) = nil, want a deleted entry")
	}
	if entry.ChangeType != core.ChangeDeleted {
		t.Errorf("ChangeType = %s, want deleted", entry.ChangeType)
	}
	if len(entry.Changes) != 1 {
		t.Fatalf("Changes = %d, want 1 synthetic budget change", len(entry.Changes))
	}
	c := entry.Changes[0]
	if c.Field != "budget" || c.NewValue != nil {
		t.Errorf("change = %+v, want field budget with nil new value", c)
	}
}

func TestDiffBudgets_Update(t *testing.T) {
	prev := testBudget()

	t.Run("single field", func(t *testing.T) {
		next := prev
		next.Amount = dec("600")

		entry := DiffBudgets(&prev, &next, "u1", "", date(2024, time.May, 1))
		if entry == nil {
			t.Fatal("DiffBudgets() = nil, want an updated entry")
		}
		if entry.ChangeType != core.ChangeUpdated {
			t.Errorf("ChangeType = %s, want updated", entry.ChangeType)
		}
		if len(entry.Changes) != 1 {
			t.Fatalf("Changes = %d, want exactly 1", len(entry.Changes))
		}
		c := entry.Changes[0]
		if c.Field != "amount" {
			t.Errorf("Field = %q, want amount", c.Field)
		}
	})

	t.Run("multiple fields", func(t *testing.T) {
		next := prev
		next.Title = "Food & Drink"
		next.Recurrence = core.Weekly
		next.Category = "Dining"

		entry := DiffBudgets(&prev, &next, "u1", "", date(2024, time.May, 1))
		if entry == nil {
			t.Fatal("DiffBudgets() = nil, want an updated entry")
		}
		if len(entry.Changes) != 3 {
			t.Fatalf("Changes = %d, want 3", len(entry.Changes))
		}
	})

	t.Run("no changes returns nil", func(t *testing.T) {
		next := prev
		if entry := DiffBudgets(&prev, &next, "u1", "touched but unchanged", date(2024, time.May, 1)); entry != nil {
			t.Errorf("DiffBudgets() = %+v, want nil for identical snapshots", entry)
		}
	})

	t.Run("equal decimals of different scale are unchanged", func(t *testing.T) {
		next := prev
		next.Amount = dec("500.00")

		if entry := DiffBudgets(&prev, &next, "u1", "", date(2024, time.May, 1)); entry != nil {
			t.Errorf("DiffBudgets() = %+v, want nil for 500 vs 500.00", entry)
		}
	})
}

func TestDiffBudgets_BothNil(t *testing.T) {
	if entry := DiffBudgets(nil, nil, "u1", "", date(2024, time.May, 1)); entry != nil {
		t.Errorf("DiffBudgets(nil, nil) = %+v, want nil", entry)
	}
}
