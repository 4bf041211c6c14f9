package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/amqp"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// BudgetService orchestrates budget mutations. Every create, update and
// delete diffs the snapshots and appends the resulting audit entry within
// the same request, so the audit trail can never lag behind the data.
// Event publishing is best-effort and never fails the mutation.
type BudgetService struct {
	budgets    BudgetRepository
	auditLog   AuditLogRepository
	amqpClient *amqp.Client
}

func NewBudgetService(budgets BudgetRepository, auditLog AuditLogRepository, amqpClient *amqp.Client) *BudgetService {
	return &BudgetService{
		budgets:    budgets,
		auditLog:   auditLog,
		amqpClient: amqpClient,
	}
}

// Create validates and persists a new budget and records its creation.
func (s *BudgetService) Create(ctx context.Context, b core.Budget, reason string) (core.Budget, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	if err := s.budgets.CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	entry := DiffBudgets(nil, &b, b.UserID, reason, time.Now().UTC())
	if err := s.appendLog(ctx, entry); err != nil {
		return core.Budget{}, err
	}
	s.publishEvent(ctx, entry)

	slog.InfoContext(ctx, "Budget created",
		"budget_id", b.ID,
		"title", b.Title,
		"amount", b.Amount,
		"recurrence", b.Recurrence)
	return b, nil
}

// Update persists the new snapshot and records one change per modified
// field. An update that changes nothing is a no-op for the audit log and
// publishes no event.
func (s *BudgetService) Update(ctx context.Context, b core.Budget, reason string) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	prev, err := s.budgets.GetBudget(ctx, b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("load budget: %w", err)
	}
	b.UserID = prev.UserID
	b.CreatedAt = prev.CreatedAt

	entry := DiffBudgets(&prev, &b, b.UserID, reason, time.Now().UTC())
	if entry == nil {
		slog.DebugContext(ctx, "Budget update changed nothing", "budget_id", b.ID)
		return prev, nil
	}

	if err := s.budgets.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if err := s.appendLog(ctx, entry); err != nil {
		return core.Budget{}, err
	}
	s.publishEvent(ctx, entry)

	slog.InfoContext(ctx, "Budget updated",
		"budget_id", b.ID,
		"changed_fields", len(entry.Changes))
	return b, nil
}

// Delete removes the budget and records its final snapshot.
func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID, reason string) error {
	prev, err := s.budgets.GetBudget(ctx, id)
	if err != nil {
		return fmt.Errorf("load budget: %w", err)
	}

	if err := s.budgets.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}

	entry := DiffBudgets(&prev, nil, prev.UserID, reason, time.Now().UTC())
	if err := s.appendLog(ctx, entry); err != nil {
		return err
	}
	s.publishEvent(ctx, entry)

	slog.InfoContext(ctx, "Budget deleted", "budget_id", id, "title", prev.Title)
	return nil
}

func (s *BudgetService) appendLog(ctx context.Context, entry *core.BudgetLogEntry) error {
	if entry == nil {
		return nil
	}
	if err := s.auditLog.AppendLogEntry(ctx, *entry); err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (s *BudgetService) publishEvent(ctx context.Context, entry *core.BudgetLogEntry) {
	if entry == nil || s.amqpClient == nil {
		return
	}
	msg := amqp.NewBudgetEventMessage(entry.BudgetID.String(), entry.UserID, string(entry.ChangeType))
	if err := s.amqpClient.PublishBudgetEvent(ctx, msg); err != nil {
		// The mutation and its audit entry are already committed.
		slog.ErrorContext(ctx, "Failed to publish budget event",
			"budget_id", entry.BudgetID,
			"change_type", entry.ChangeType,
			"error", err)
	}
}
