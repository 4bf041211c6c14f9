package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// AggregateBudgetProgress filters the user's transactions down to the
// budget's category and current period, sums the spend normalized into the
// budget's currency, and derives remaining/progress/over-budget figures.
//
// The function is pure: it never reads a clock or a store, so the same
// inputs and the same now always produce the same output. Transactions with
// a zero date are skipped rather than aborting the whole aggregation; one
// malformed record must not hide the rest of a budget's progress.
func AggregateBudgetProgress(budget core.Budget, transactions []core.Transaction, now time.Time) (core.BudgetProgress, error) {
	if !budget.Amount.IsPositive() {
		// Rejected at creation time; guard the divisor anyway.
		return core.BudgetProgress{}, core.ErrInvalidBudgetAmount
	}

	period, err := ResolvePeriod(budget.Recurrence, budget.StartDate, now)
	if err != nil {
		return core.BudgetProgress{}, fmt.Errorf("resolve period: %w", err)
	}

	total := decimal.Zero
	count := 0
	for _, tx := range transactions {
		if tx.Type != core.Expense {
			continue
		}
		if tx.Date.IsZero() {
			continue
		}
		if !budget.Category.Matches(tx.Category) {
			continue
		}
		if !period.Contains(startOfDay(tx.Date)) {
			continue
		}
		total = total.Add(core.NormalizeAmount(tx.Amount, tx.FromRate, tx.ToRate, budget.Currency))
		count++
	}

	progress, _ := total.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Float64()

	return core.BudgetProgress{
		BudgetID:      budget.ID,
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
		TotalSpent:    total,
		Remaining:     budget.Amount.Sub(total),
		Progress:      progress,
		IsOverBudget:  total.GreaterThan(budget.Amount),
		ExpensesCount: count,
	}, nil
}
