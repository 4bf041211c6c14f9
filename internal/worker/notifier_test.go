package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/amqp"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/services"
)

type memRepo struct {
	budgets []core.Budget
	txs     []core.Transaction
}

func (m *memRepo) CreateBudget(context.Context, core.Budget) error { return errors.New("read only") }
func (m *memRepo) UpdateBudget(context.Context, core.Budget) error { return errors.New("read only") }
func (m *memRepo) DeleteBudget(context.Context, uuid.UUID) error   { return errors.New("read only") }
func (m *memRepo) GetBudget(context.Context, uuid.UUID) (core.Budget, error) {
	return core.Budget{}, errors.New("not found")
}

func (m *memRepo) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	var out []core.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memRepo) CreateTransaction(context.Context, core.Transaction) error {
	return errors.New("read only")
}

func (m *memRepo) GetTransaction(context.Context, uuid.UUID) (core.Transaction, error) {
	return core.Transaction{}, errors.New("not found")
}

func (m *memRepo) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateBillStatus(context.Context, uuid.UUID, core.BillStatus) error {
	return errors.New("read only")
}

func (m *memRepo) ListUserIDs(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, b := range m.budgets {
		if !seen[b.UserID] {
			seen[b.UserID] = true
			out = append(out, b.UserID)
		}
	}
	for _, t := range m.txs {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			out = append(out, t.UserID)
		}
	}
	return out, nil
}

type capturePublisher struct {
	messages []*amqp.ReminderMessage
}

func (p *capturePublisher) PublishReminder(_ context.Context, msg *amqp.ReminderMessage) error {
	p.messages = append(p.messages, msg)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReminderNotifier_ScanOnce(t *testing.T) {
	now := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	budget := core.Budget{
		ID:         uuid.New(),
		UserID:     "u1",
		Title:      "Groceries",
		Amount:     dec("500"),
		Currency:   "EUR",
		Recurrence: core.Monthly,
		StartDate:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Category:   "Food",
	}
	overSpend := core.Transaction{
		ID:       uuid.New(),
		UserID:   "u1",
		Date:     time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
		Amount:   dec("620"),
		Currency: "EUR",
		FromRate: dec("1"),
		ToRate:   dec("1"),
		Category: "Food",
		Type:     core.Expense,
	}
	overdueBill := core.Transaction{
		ID:           uuid.New(),
		UserID:       "u2",
		Date:         time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount:       dec("80"),
		Currency:     "EUR",
		FromRate:     dec("1"),
		ToRate:       dec("1"),
		Category:     "Utilities",
		Type:         core.Expense,
		DueDate:      time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC),
		BillStatus:   core.BillUnpaid,
		ReminderDays: -1,
	}

	repo := &memRepo{budgets: []core.Budget{budget}, txs: []core.Transaction{overSpend, overdueBill}}
	publisher := &capturePublisher{}
	notifier := NewReminderNotifier(services.NewReminderService(repo, repo), repo, publisher)

	if err := notifier.ScanOnce(context.Background(), now); err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}

	if len(publisher.messages) != 2 {
		t.Fatalf("published = %d messages, want 2", len(publisher.messages))
	}

	byUser := map[string]*amqp.ReminderMessage{}
	for _, msg := range publisher.messages {
		byUser[msg.UserID] = msg
	}
	if msg := byUser["u1"]; msg == nil || msg.Title != "Budget Exceeded" || msg.Severity != "danger" {
		t.Errorf("u1 reminder = %+v, want danger Budget Exceeded", msg)
	}
	if msg := byUser["u2"]; msg == nil || msg.Title != "Bill Overdue" {
		t.Errorf("u2 reminder = %+v, want Bill Overdue", msg)
	}
}

func TestReminderNotifier_HandleBudgetEvent(t *testing.T) {
	now := time.Now()

	budget := core.Budget{
		ID:         uuid.New(),
		UserID:     "u1",
		Title:      "Groceries",
		Amount:     dec("100"),
		Currency:   "EUR",
		Recurrence: core.Monthly,
		StartDate:  now.AddDate(0, -1, 0),
		Category:   core.CategoryAll,
	}
	spend := core.Transaction{
		ID:       uuid.New(),
		UserID:   "u1",
		Date:     now,
		Amount:   dec("70"),
		Currency: "EUR",
		FromRate: dec("1"),
		ToRate:   dec("1"),
		Category: "Food",
		Type:     core.Expense,
	}

	repo := &memRepo{budgets: []core.Budget{budget}, txs: []core.Transaction{spend}}
	publisher := &capturePublisher{}
	notifier := NewReminderNotifier(services.NewReminderService(repo, repo), repo, publisher)

	event := amqp.NewBudgetEventMessage(budget.ID.String(), "u1", "updated")
	if err := notifier.HandleBudgetEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleBudgetEvent() error = %v", err)
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("published = %d messages, want 1", len(publisher.messages))
	}
	if publisher.messages[0].Title != "Budget Update" {
		t.Errorf("Title = %q, want Budget Update", publisher.messages[0].Title)
	}
}

func TestReminderNotifier_QuietUserPublishesNothing(t *testing.T) {
	budget := core.Budget{
		ID:         uuid.New(),
		UserID:     "u1",
		Title:      "Groceries",
		Amount:     dec("1000"),
		Currency:   "EUR",
		Recurrence: core.Monthly,
		StartDate:  time.Now().AddDate(0, -1, 0),
		Category:   core.CategoryAll,
	}

	repo := &memRepo{budgets: []core.Budget{budget}}
	publisher := &capturePublisher{}
	notifier := NewReminderNotifier(services.NewReminderService(repo, repo), repo, publisher)

	if err := notifier.ScanOnce(context.Background(), time.Now()); err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}
	if len(publisher.messages) != 0 {
		t.Errorf("published = %d messages, want 0", len(publisher.messages))
	}
}
