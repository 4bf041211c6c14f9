package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// TransactionService orchestrates transaction and bill operations.
type TransactionService struct {
	transactions TransactionRepository
}

func NewTransactionService(transactions TransactionRepository) *TransactionService {
	return &TransactionService{transactions: transactions}
}

// Create validates and persists a transaction. Exchange rates are pinned
// at creation time: missing rates default to 1 so later rate changes never
// rewrite history.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.FromRate.IsZero() {
		tx.FromRate = decimal.NewFromInt(1)
	}
	if tx.ToRate.IsZero() {
		tx.ToRate = decimal.NewFromInt(1)
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.transactions.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount,
		"category", tx.Category)
	return tx, nil
}

// Get returns a single transaction by ID.
func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	tx, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}
	return tx, nil
}

// List returns all transactions for a user.
func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	txs, err := s.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// SetBillStatus moves a bill through its lifecycle. Only forward
// transitions are allowed and paid is terminal.
func (s *TransactionService) SetBillStatus(ctx context.Context, id uuid.UUID, status core.BillStatus) error {
	tx, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}
	if !tx.IsBill() {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotABill)
	}
	if !tx.BillStatus.CanTransitionTo(status) {
		return fmt.Errorf("bill %s: %s to %s: %w", id, tx.BillStatus, status, core.ErrBillTransition)
	}

	if err := s.transactions.UpdateBillStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update bill status: %w", err)
	}

	slog.InfoContext(ctx, "Bill status changed",
		"transaction_id", id,
		"from", tx.BillStatus,
		"to", status)
	return nil
}

// MarkBillPaid settles a bill. Paid bills drop out of overdue and upcoming
// classification immediately.
func (s *TransactionService) MarkBillPaid(ctx context.Context, id uuid.UUID) error {
	return s.SetBillStatus(ctx, id, core.BillPaid)
}
