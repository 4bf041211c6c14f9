package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// ReminderService is the read side of the engine: it aggregates budget
// progress, classifies reminders and buckets bills, all computed from
// current data with no stored derived state.
type ReminderService struct {
	budgets      BudgetRepository
	transactions TransactionRepository
}

func NewReminderService(budgets BudgetRepository, transactions TransactionRepository) *ReminderService {
	return &ReminderService{
		budgets:      budgets,
		transactions: transactions,
	}
}

// BudgetProgressAll resolves the current period for each of the user's
// budgets and aggregates spending against it.
func (s *ReminderService) BudgetProgressAll(ctx context.Context, userID string, now time.Time) ([]core.BudgetProgress, error) {
	budgets, err := s.budgets.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	txs, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	progress := make([]core.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		p, err := AggregateBudgetProgress(b, txs, now)
		if err != nil {
			return nil, fmt.Errorf("aggregate budget %s: %w", b.ID, err)
		}
		progress = append(progress, p)
	}
	return progress, nil
}

// BudgetReminders returns one reminder per budget that crossed a
// threshold. Budgets below the lowest threshold produce nothing.
func (s *ReminderService) BudgetReminders(ctx context.Context, userID string, now time.Time) ([]core.BudgetReminder, error) {
	budgets, err := s.budgets.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	txs, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var reminders []core.BudgetReminder
	for _, b := range budgets {
		p, err := AggregateBudgetProgress(b, txs, now)
		if err != nil {
			return nil, fmt.Errorf("aggregate budget %s: %w", b.ID, err)
		}
		if r := ClassifyBudgetReminder(b, p); r != nil {
			reminders = append(reminders, *r)
		}
	}
	return reminders, nil
}

// Bills buckets the user's bills into upcoming and overdue and collects
// due reminders.
func (s *ReminderService) Bills(ctx context.Context, userID string, now time.Time) (core.BillBuckets, error) {
	txs, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return core.BillBuckets{}, fmt.Errorf("list transactions: %w", err)
	}
	return ClassifyBills(txs, now), nil
}
