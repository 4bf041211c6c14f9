package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// upcomingWindowDays is the fixed horizon within which an unpaid bill
// counts as upcoming.
const upcomingWindowDays = 7

// ResolveBillState classifies one bill against now. All comparisons are
// date-granular: time of day is ignored on both sides.
//
// A paid bill is terminal and gets no further classification. Otherwise the
// bill is overdue when its due date has passed and upcoming when it is due
// within the next seven days. Independently of either, a configured
// reminder window (ReminderDays >= 0) marks the bill reminder-due while the
// due date is at most that many days away.
func ResolveBillState(tx core.Transaction, now time.Time) (core.BillState, error) {
	if !tx.IsBill() {
		return core.BillState{}, fmt.Errorf("%w: no due date", core.ErrNotABill)
	}
	if tx.BillStatus == core.BillPaid {
		return core.BillState{Paid: true}, nil
	}

	daysLeft := daysBetween(startOfDay(now), startOfDay(tx.DueDate))
	state := core.BillState{DaysLeft: daysLeft}
	state.Overdue = daysLeft < 0
	state.Upcoming = daysLeft >= 0 && daysLeft <= upcomingWindowDays
	if tx.ReminderDays >= 0 && daysLeft >= 0 && daysLeft <= tx.ReminderDays {
		state.ReminderDue = true
	}
	return state, nil
}

// ClassifyBills buckets a transaction collection into upcoming and overdue
// bills plus the reminders due right now. Non-bill transactions are
// ignored; a bill with a zero due date is skipped, never silently given
// today's date.
func ClassifyBills(transactions []core.Transaction, now time.Time) core.BillBuckets {
	var buckets core.BillBuckets
	for _, tx := range transactions {
		if !tx.IsBill() {
			continue
		}
		state, err := ResolveBillState(tx, now)
		if err != nil || state.Paid {
			continue
		}
		if state.Upcoming {
			buckets.Upcoming = append(buckets.Upcoming, tx)
		}
		if state.Overdue {
			buckets.Overdue = append(buckets.Overdue, tx)
			buckets.Reminders = append(buckets.Reminders, core.BillReminder{
				ID:       uuid.New(),
				SourceID: tx.ID,
				Severity: core.SeverityDanger,
				Title:    "Bill Overdue",
				Message: fmt.Sprintf("%s %s was due %d day(s) ago",
					tx.Amount.StringFixed(2), tx.Currency, -state.DaysLeft),
				DaysLeft: state.DaysLeft,
			})
		}
		if state.ReminderDue {
			buckets.Reminders = append(buckets.Reminders, core.BillReminder{
				ID:       uuid.New(),
				SourceID: tx.ID,
				Severity: core.SeverityWarning,
				Title:    "Bill Due Soon",
				Message: fmt.Sprintf("%s %s is due in %d day(s)",
					tx.Amount.StringFixed(2), tx.Currency, state.DaysLeft),
				DaysLeft: state.DaysLeft,
			})
		}
	}
	return buckets
}
