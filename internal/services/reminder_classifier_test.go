package services

import (
	"strings"
	"testing"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

func TestClassifyBudgetReminder(t *testing.T) {
	budget := testBudget()

	tests := []struct {
		name         string
		spent        string
		progress     float64
		over         bool
		wantNil      bool
		wantSeverity core.Severity
		wantTitle    string
	}{
		{
			name:     "below update threshold",
			spent:    "100",
			progress: 20.0,
			wantNil:  true,
		},
		{
			name:     "just under update threshold",
			spent:    "299.995",
			progress: 59.999,
			wantNil:  true,
		},
		{
			name:         "exactly at update threshold",
			spent:        "300",
			progress:     60.0,
			wantSeverity: core.SeverityWarning,
			wantTitle:    "Budget Update",
		},
		{
			name:         "between thresholds",
			spent:        "350",
			progress:     70.0,
			wantSeverity: core.SeverityWarning,
			wantTitle:    "Budget Update",
		},
		{
			name:         "exactly at warning threshold",
			spent:        "400",
			progress:     80.0,
			wantSeverity: core.SeverityWarning,
			wantTitle:    "Budget Warning",
		},
		{
			name:         "high but not over",
			spent:        "499",
			progress:     99.8,
			wantSeverity: core.SeverityWarning,
			wantTitle:    "Budget Warning",
		},
		{
			name:         "over budget wins over both thresholds",
			spent:        "620",
			progress:     124.0,
			over:         true,
			wantSeverity: core.SeverityDanger,
			wantTitle:    "Budget Exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := core.BudgetProgress{
				BudgetID:     budget.ID,
				TotalSpent:   dec(tt.spent),
				Remaining:    budget.Amount.Sub(dec(tt.spent)),
				Progress:     tt.progress,
				IsOverBudget: tt.over,
			}

			got := ClassifyBudgetReminder(budget, progress)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ClassifyBudgetReminder() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ClassifyBudgetReminder() = nil, want a reminder")
			}
			if got.Severity != tt.wantSeverity {
				t.Errorf("Severity = %s, want %s", got.Severity, tt.wantSeverity)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.SourceID != budget.ID {
				t.Errorf("SourceID = %s, want budget ID %s", got.SourceID, budget.ID)
			}
			if got.Progress != tt.progress {
				t.Errorf("Progress = %v, want %v", got.Progress, tt.progress)
			}
		})
	}
}

func TestClassifyBudgetReminder_MessageContent(t *testing.T) {
	budget := testBudget()

	progress := core.BudgetProgress{
		BudgetID:     budget.ID,
		TotalSpent:   dec("620"),
		Remaining:    dec("-120"),
		Progress:     124.0,
		IsOverBudget: true,
	}

	got := ClassifyBudgetReminder(budget, progress)
	if got == nil {
		t.Fatal("ClassifyBudgetReminder() = nil, want a reminder")
	}
	if !strings.Contains(got.Message, budget.Title) {
		t.Errorf("message %q should name the budget", got.Message)
	}
	if !strings.Contains(got.Message, "120.00") {
		t.Errorf("message %q should state the overshoot with two decimals", got.Message)
	}
	if !strings.Contains(got.Message, "124.0%") {
		t.Errorf("message %q should round the percentage to one decimal", got.Message)
	}
}
