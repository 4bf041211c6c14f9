// Package services provides the aggregation engine and the orchestration
// around it.
//
// This file implements recurrence-period resolution as a strategy per
// recurrence unit. Every period is a half-open interval anchored on the
// budget's start date: consecutive periods tile the timeline without gap
// or overlap, and a budget started on the 15th always resets on the 15th.
package services

import (
	"fmt"
	"time"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// Period is the half-open date interval [Start, End) a budget's spending
// is measured over before resetting.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.Start) && d.Before(p.End)
}

// periodStrategy computes the current period for one recurrence unit.
// start and now are already normalized to UTC midnight with start <= now.
type periodStrategy interface {
	currentPeriod(start, now time.Time) Period
}

type dailyPeriod struct{}

func (dailyPeriod) currentPeriod(start, now time.Time) Period {
	n := daysBetween(start, now)
	s := start.AddDate(0, 0, n)
	return Period{Start: s, End: s.AddDate(0, 0, 1)}
}

type weeklyPeriod struct{}

func (weeklyPeriod) currentPeriod(start, now time.Time) Period {
	n := daysBetween(start, now) / 7
	s := start.AddDate(0, 0, n*7)
	return Period{Start: s, End: s.AddDate(0, 0, 7)}
}

// monthlyPeriod preserves the anchor's day of month, clamping to the last
// day of shorter months (a Jan 31 anchor yields a Feb 28/29 boundary).
type monthlyPeriod struct{}

func (monthlyPeriod) currentPeriod(start, now time.Time) Period {
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	s := addMonthsClamped(start, months)
	for s.After(now) {
		months--
		s = addMonthsClamped(start, months)
	}
	return Period{Start: s, End: addMonthsClamped(start, months+1)}
}

// yearlyPeriod preserves the anchor's month and day, clamping Feb 29 to
// Feb 28 on non-leap years.
type yearlyPeriod struct{}

func (yearlyPeriod) currentPeriod(start, now time.Time) Period {
	years := now.Year() - start.Year()
	s := addMonthsClamped(start, years*12)
	for s.After(now) {
		years--
		s = addMonthsClamped(start, years*12)
	}
	return Period{Start: s, End: addMonthsClamped(start, (years+1)*12)}
}

var periodStrategies = map[core.Recurrence]periodStrategy{
	core.Daily:   dailyPeriod{},
	core.Weekly:  weeklyPeriod{},
	core.Monthly: monthlyPeriod{},
	core.Yearly:  yearlyPeriod{},
}

// ResolvePeriod returns the period containing now for the given recurrence
// and anchor. When now precedes the anchor the budget is not yet active and
// the first period is returned; callers must treat progress as zero then.
func ResolvePeriod(recurrence core.Recurrence, startDate, now time.Time) (Period, error) {
	strategy, ok := periodStrategies[recurrence]
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", core.ErrInvalidRecurrence, recurrence)
	}
	if startDate.IsZero() {
		return Period{}, fmt.Errorf("%w: zero start date", core.ErrMalformedDate)
	}

	start := startOfDay(startDate)
	day := startOfDay(now)
	if day.Before(start) {
		day = start
	}
	return strategy.currentPeriod(start, day), nil
}

// startOfDay normalizes a timestamp to its UTC calendar date; all period
// math is date-granular.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole days from a to b, negative when b precedes a.
// Both arguments must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// addMonthsClamped adds n calendar months to an anchor, clamping the day of
// month to the target month's last day instead of letting it roll over.
func addMonthsClamped(anchor time.Time, n int) time.Time {
	y := anchor.Year()
	m := int(anchor.Month()) + n
	candidate := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	day := anchor.Day()
	if last := lastDayOfMonth(candidate.Year(), candidate.Month()); day > last {
		day = last
	}
	return time.Date(candidate.Year(), candidate.Month(), day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
