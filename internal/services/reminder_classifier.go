package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// Fixed reminder thresholds, expressed as percent of the budget amount.
// These are constants, not user configuration.
const (
	budgetUpdateThreshold  = 60.0
	budgetWarningThreshold = 80.0
)

// ClassifyBudgetReminder maps a budget's progress onto a severity tier.
// Precedence, highest first: over budget, >= 80%, >= 60%, otherwise nil.
// Both the 80 and 60 tiers carry the warning severity; only the titles and
// wording differ. Comparisons use the raw progress value, message text
// rounds percentages to one decimal and amounts to two.
func ClassifyBudgetReminder(budget core.Budget, progress core.BudgetProgress) *core.BudgetReminder {
	switch {
	case progress.IsOverBudget:
		over := progress.TotalSpent.Sub(budget.Amount)
		return &core.BudgetReminder{
			ID:       uuid.New(),
			SourceID: budget.ID,
			Severity: core.SeverityDanger,
			Title:    "Budget Exceeded",
			Message: fmt.Sprintf("%s is over budget by %s %s (%.1f%% used)",
				budget.Title, over.StringFixed(2), budget.Currency, progress.Progress),
			Progress: progress.Progress,
		}
	case progress.Progress >= budgetWarningThreshold:
		return &core.BudgetReminder{
			ID:       uuid.New(),
			SourceID: budget.ID,
			Severity: core.SeverityWarning,
			Title:    "Budget Warning",
			Message: fmt.Sprintf("%s has %.1f%% used, %s %s remaining",
				budget.Title, progress.Progress, progress.Remaining.StringFixed(2), budget.Currency),
			Progress: progress.Progress,
		}
	case progress.Progress >= budgetUpdateThreshold:
		return &core.BudgetReminder{
			ID:       uuid.New(),
			SourceID: budget.ID,
			Severity: core.SeverityWarning,
			Title:    "Budget Update",
			Message: fmt.Sprintf("%s is at %.1f%% of its %s %s limit",
				budget.Title, progress.Progress, budget.Amount.StringFixed(2), budget.Currency),
			Progress: progress.Progress,
		}
	default:
		return nil
	}
}
