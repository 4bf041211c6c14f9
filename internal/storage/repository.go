package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteRepository persists budgets, transactions and the budget audit log.
// Decimals and timestamps are stored as TEXT so no precision is lost in
// either direction; audit changes are stored as a JSON document per entry.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- budgets ---

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, title, amount, currency, recurrence, start_date, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID.String(), b.UserID, b.Title, b.Amount.String(), b.Currency,
		string(b.Recurrence), formatTime(b.StartDate), string(b.Category), formatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET title = ?, amount = ?, currency = ?, recurrence = ?, start_date = ?, category = ?
		WHERE id = ?`,
		b.Title, b.Amount.String(), b.Currency, string(b.Recurrence),
		formatTime(b.StartDate), string(b.Category), b.ID.String())
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id uuid.UUID) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, amount, currency, recurrence, start_date, category, created_at
		FROM budgets WHERE id = ?`, id.String())
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, amount, currency, recurrence, start_date, category, created_at
		FROM budgets WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, date, amount, currency, from_rate, to_rate,
			category, type, is_recurring, recurring_frequency, end_date, template_id,
			due_date, bill_status, bill_frequency, reminder_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID, formatTime(t.Date), t.Amount.String(), t.Currency,
		t.FromRate.String(), t.ToRate.String(), string(t.Category), string(t.Type),
		t.IsRecurring, nullString(string(t.RecurringFrequency)), nullTime(t.EndDate),
		nullString(t.TemplateID), nullTime(t.DueDate), nullString(string(t.BillStatus)),
		nullString(string(t.BillFrequency)), nullReminderDays(t.ReminderDays))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, transactionColumns+` WHERE id = ?`, id.String())
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, transactionColumns+` WHERE user_id = ? ORDER BY date`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBillStatus(ctx context.Context, id uuid.UUID, status core.BillStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET bill_status = ? WHERE id = ?`, string(status), id.String())
	if err != nil {
		return fmt.Errorf("update bill status: %w", err)
	}
	return requireAffected(res)
}

// --- budget log ---

func (r *SQLiteRepository) AppendLogEntry(ctx context.Context, entry core.BudgetLogEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO budget_log (id, budget_id, user_id, change_type, changes, reason, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(), entry.BudgetID.String(), entry.UserID,
		string(entry.ChangeType), string(changes), entry.Reason, formatTime(entry.Timestamp))
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListLogEntries(ctx context.Context, userID string) ([]core.BudgetLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, budget_id, user_id, change_type, changes, reason, timestamp
		FROM budget_log WHERE user_id = ? ORDER BY timestamp DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetLogEntry
	for rows.Next() {
		var (
			entry                             core.BudgetLogEntry
			id, budgetID, changeType, changes string
			ts                                string
		)
		if err := rows.Scan(&id, &budgetID, &entry.UserID, &changeType, &changes, &entry.Reason, &ts); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if entry.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse log entry id: %w", err)
		}
		if entry.BudgetID, err = uuid.Parse(budgetID); err != nil {
			return nil, fmt.Errorf("parse log entry budget id: %w", err)
		}
		entry.ChangeType = core.ChangeType(changeType)
		if entry.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse log entry timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(changes), &entry.Changes); err != nil {
			return nil, fmt.Errorf("unmarshal changes: %w", err)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ListUserIDs returns every user that owns at least one budget or
// transaction. The reminder worker iterates these on each scan.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM budgets
		UNION
		SELECT user_id FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// --- scanning helpers ---

const transactionColumns = `
	SELECT id, user_id, date, amount, currency, from_rate, to_rate,
		category, type, is_recurring, recurring_frequency, end_date, template_id,
		due_date, bill_status, bill_frequency, reminder_days
	FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b                                core.Budget
		id, amount, recurrence, category string
		startDate, createdAt             string
	)
	err := row.Scan(&id, &b.UserID, &b.Title, &amount, &b.Currency, &recurrence, &startDate, &category, &createdAt)
	if err != nil {
		return core.Budget{}, err
	}
	if b.ID, err = uuid.Parse(id); err != nil {
		return core.Budget{}, fmt.Errorf("parse budget id: %w", err)
	}
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Budget{}, fmt.Errorf("parse budget amount: %w", err)
	}
	b.Recurrence = core.Recurrence(recurrence)
	b.Category = core.Category(category)
	if b.StartDate, err = parseTime(startDate); err != nil {
		return core.Budget{}, fmt.Errorf("parse start date: %w", err)
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return core.Budget{}, fmt.Errorf("parse created at: %w", err)
	}
	return b, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                                           core.Transaction
		id, date, amount, fromRate, toRate          string
		category, txType                            string
		recurringFreq, endDate, templateID          sql.NullString
		dueDate, billStatus, billFreq               sql.NullString
		reminderDays                                sql.NullInt64
	)
	err := row.Scan(&id, &t.UserID, &date, &amount, &t.Currency, &fromRate, &toRate,
		&category, &txType, &t.IsRecurring, &recurringFreq, &endDate, &templateID,
		&dueDate, &billStatus, &billFreq, &reminderDays)
	if err != nil {
		return core.Transaction{}, err
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction id: %w", err)
	}
	if t.Date, err = parseTime(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date: %w", err)
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount: %w", err)
	}
	if t.FromRate, err = decimal.NewFromString(fromRate); err != nil {
		return core.Transaction{}, fmt.Errorf("parse from rate: %w", err)
	}
	if t.ToRate, err = decimal.NewFromString(toRate); err != nil {
		return core.Transaction{}, fmt.Errorf("parse to rate: %w", err)
	}
	t.Category = core.Category(category)
	t.Type = core.TransactionType(txType)
	t.RecurringFrequency = core.Recurrence(recurringFreq.String)
	t.TemplateID = templateID.String
	t.BillStatus = core.BillStatus(billStatus.String)
	t.BillFrequency = core.Recurrence(billFreq.String)
	if endDate.Valid && endDate.String != "" {
		if t.EndDate, err = parseTime(endDate.String); err != nil {
			return core.Transaction{}, fmt.Errorf("parse end date: %w", err)
		}
	}
	if dueDate.Valid && dueDate.String != "" {
		if t.DueDate, err = parseTime(dueDate.String); err != nil {
			return core.Transaction{}, fmt.Errorf("parse due date: %w", err)
		}
	}
	t.ReminderDays = -1
	if reminderDays.Valid {
		t.ReminderDays = int(reminderDays.Int64)
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func nullReminderDays(days int) sql.NullInt64 {
	if days < 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(days), Valid: true}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
