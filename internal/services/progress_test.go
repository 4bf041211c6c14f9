package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testBudget() core.Budget {
	return core.Budget{
		ID:         uuid.New(),
		UserID:     "u1",
		Title:      "Groceries",
		Amount:     dec("500"),
		Currency:   "EUR",
		Recurrence: core.Monthly,
		StartDate:  date(2024, time.January, 15),
		Category:   "Food",
	}
}

func expense(day time.Time, amount string, category core.Category) core.Transaction {
	return core.Transaction{
		ID:       uuid.New(),
		UserID:   "u1",
		Date:     day,
		Amount:   dec(amount),
		Currency: "EUR",
		FromRate: decimal.NewFromInt(1),
		ToRate:   decimal.NewFromInt(1),
		Category: category,
		Type:     core.Expense,
	}
}

func TestAggregateBudgetProgress(t *testing.T) {
	budget := testBudget()
	now := date(2024, time.April, 1)

	txs := []core.Transaction{
		expense(date(2024, time.March, 16), "120", "Food"),
		expense(date(2024, time.March, 25), "200", "Food"),
		expense(date(2024, time.April, 1), "90", "Food"),
		// Outside the current period.
		expense(date(2024, time.March, 14), "999", "Food"),
		expense(date(2024, time.April, 15), "999", "Food"),
		// Wrong category, wrong type.
		expense(date(2024, time.March, 20), "50", "Transport"),
		func() core.Transaction {
			tx := expense(date(2024, time.March, 20), "1000", "Food")
			tx.Type = core.Income
			return tx
		}(),
	}

	got, err := AggregateBudgetProgress(budget, txs, now)
	if err != nil {
		t.Fatalf("AggregateBudgetProgress() error = %v", err)
	}

	if want := dec("410"); !got.TotalSpent.Equal(want) {
		t.Errorf("TotalSpent = %s, want %s", got.TotalSpent, want)
	}
	if want := dec("90"); !got.Remaining.Equal(want) {
		t.Errorf("Remaining = %s, want %s", got.Remaining, want)
	}
	if got.Progress != 82.0 {
		t.Errorf("Progress = %v, want 82.0", got.Progress)
	}
	if got.IsOverBudget {
		t.Error("IsOverBudget = true, want false")
	}
	if got.ExpensesCount != 3 {
		t.Errorf("ExpensesCount = %d, want 3", got.ExpensesCount)
	}
	if !got.PeriodStart.Equal(date(2024, time.March, 15)) || !got.PeriodEnd.Equal(date(2024, time.April, 15)) {
		t.Errorf("period = [%v, %v), want [2024-03-15, 2024-04-15)", got.PeriodStart, got.PeriodEnd)
	}
}

func TestAggregateBudgetProgress_PeriodBoundaries(t *testing.T) {
	// Period start is inclusive, period end is exclusive.
	budget := testBudget()
	now := date(2024, time.April, 1)

	txs := []core.Transaction{
		expense(date(2024, time.March, 15), "10", "Food"),
		expense(date(2024, time.April, 14), "20", "Food"),
		expense(date(2024, time.April, 15), "40", "Food"),
	}

	got, err := AggregateBudgetProgress(budget, txs, now)
	if err != nil {
		t.Fatalf("AggregateBudgetProgress() error = %v", err)
	}
	if want := dec("30"); !got.TotalSpent.Equal(want) {
		t.Errorf("TotalSpent = %s, want %s", got.TotalSpent, want)
	}
}

func TestAggregateBudgetProgress_AllCategories(t *testing.T) {
	budget := testBudget()
	budget.Category = core.CategoryAll
	now := date(2024, time.April, 1)

	txs := []core.Transaction{
		expense(date(2024, time.March, 20), "100", "Food"),
		expense(date(2024, time.March, 21), "50", "Transport"),
		expense(date(2024, time.March, 22), "25", "Entertainment"),
	}

	got, err := AggregateBudgetProgress(budget, txs, now)
	if err != nil {
		t.Fatalf("AggregateBudgetProgress() error = %v", err)
	}
	if want := dec("175"); !got.TotalSpent.Equal(want) {
		t.Errorf("TotalSpent = %s, want %s", got.TotalSpent, want)
	}
	if got.ExpensesCount != 3 {
		t.Errorf("ExpensesCount = %d, want 3", got.ExpensesCount)
	}
}

func TestAggregateBudgetProgress_CurrencyNormalization(t *testing.T) {
	budget := testBudget()
	now := date(2024, time.April, 1)

	tx := expense(date(2024, time.March, 20), "100", "Food")
	tx.Currency = "USD"
	tx.FromRate = dec("0.92")
	tx.ToRate = dec("1")

	got, err := AggregateBudgetProgress(budget, []core.Transaction{tx}, now)
	if err != nil {
		t.Fatalf("AggregateBudgetProgress() error = %v", err)
	}
	if want := dec("92"); !got.TotalSpent.Equal(want) {
		t.Errorf("TotalSpent = %s, want %s", got.TotalSpent, want)
	}
}

func TestAggregateBudgetProgress_OverBudget(t *testing.T) {
	budget := testBudget()
	now := date(2024, time.April, 1)

	got, err := AggregateBudgetProgress(budget, []core.Transaction{
		expense(date(2024, time.March, 20), "600", "Food"),
	}, now)
	if err != nil {
		t.Fatalf("AggregateBudgetProgress() error = %v", err)
	}
	if !got.IsOverBudget {
		t.Error("IsOverBudget = false, want true")
	}
	if want := dec("-100"); !got.Remaining.Equal(want) {
		t.Errorf("Remaining = %s, want %s", got.Remaining, want)
	}
	if got.Progress != 120.0 {
		t.Errorf("Progress = %v, want 120.0", got.Progress)
	}
}

func TestAggregateBudgetProgress_ExactlyAtLimit(t *testing.T) {
	// Spending exactly the budget amount is not over budget.
	budget := testBudget()
	now := date(2024, time.April, 1)

	got, err := AggregateBudgetProgress(budget, []core.Transaction{
		expense(date(2024, time.March, 20), "500", "Food"),
	}, now)
	if err != nil {
		t.Fatalf("AggregateBudgetProgress() error = %v", err)
	}
	if got.IsOverBudget {
		t.Error("IsOverBudget = true at exactly 100%, want false")
	}
	if got.Progress != 100.0 {
		t.Errorf("Progress = %v, want 100.0", got.Progress)
	}
}

func TestAggregateBudgetProgress_SkipsMalformedDates(t *testing.T) {
	budget := testBudget()
	now := date(2024, time.April, 1)

	bad := expense(time.Time{}, "250", "Food")
	good := expense(date(2024, time.March, 20), "100", "Food")

	got, err := AggregateBudgetProgress(budget, []core.Transaction{bad, good}, now)
	if err != nil {
		t.Fatalf("AggregateBudgetProgress() error = %v", err)
	}
	if want := dec("100"); !got.TotalSpent.Equal(want) {
		t.Errorf("TotalSpent = %s, want %s (zero-date record must be skipped)", got.TotalSpent, want)
	}
	if got.ExpensesCount != 1 {
		t.Errorf("ExpensesCount = %d, want 1", got.ExpensesCount)
	}
}

func TestAggregateBudgetProgress_NoMatches(t *testing.T) {
	budget := testBudget()
	now := date(2024, time.April, 1)

	got, err := AggregateBudgetProgress(budget, nil, now)
	if err != nil {
		t.Fatalf("AggregateBudgetProgress() error = %v", err)
	}
	if !got.TotalSpent.IsZero() {
		t.Errorf("TotalSpent = %s, want 0", got.TotalSpent)
	}
	if !got.Remaining.Equal(budget.Amount) {
		t.Errorf("Remaining = %s, want %s", got.Remaining, budget.Amount)
	}
	if got.Progress != 0 {
		t.Errorf("Progress = %v, want 0", got.Progress)
	}
}

func TestAggregateBudgetProgress_InvalidAmount(t *testing.T) {
	budget := testBudget()
	budget.Amount = decimal.Zero

	_, err := AggregateBudgetProgress(budget, nil, date(2024, time.April, 1))
	if !errors.Is(err, core.ErrInvalidBudgetAmount) {
		t.Errorf("error = %v, want ErrInvalidBudgetAmount", err)
	}
}
