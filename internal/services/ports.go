package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// Ports for the persistence adapter. The engine itself never touches
// storage; these are consumed by the orchestration services and the HTTP
// and worker layers.
type (
	BudgetRepository interface {
		CreateBudget(ctx context.Context, b core.Budget) error
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id uuid.UUID) error
		GetBudget(ctx context.Context, id uuid.UUID) (core.Budget, error)
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	}

	TransactionRepository interface {
		CreateTransaction(ctx context.Context, t core.Transaction) error
		GetTransaction(ctx context.Context, id uuid.UUID) (core.Transaction, error)
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		UpdateBillStatus(ctx context.Context, id uuid.UUID, status core.BillStatus) error
	}

	AuditLogRepository interface {
		AppendLogEntry(ctx context.Context, entry core.BudgetLogEntry) error
		ListLogEntries(ctx context.Context, userID string) ([]core.BudgetLogEntry, error)
	}
)
