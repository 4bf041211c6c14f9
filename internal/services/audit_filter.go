package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
)

// FilterBudgetLog applies the optional predicates to an audit-log
// collection. Predicate kinds are ANDed together; within the change-type
// and category lists any listed value matches. A zero filter returns the
// collection unchanged.
func FilterBudgetLog(entries []core.BudgetLogEntry, filter core.LogFilter) []core.BudgetLogEntry {
	if filter.IsZero() {
		return entries
	}

	out := make([]core.BudgetLogEntry, 0, len(entries))
	for _, entry := range entries {
		if !matchesChangeTypes(entry, filter.ChangeTypes) {
			continue
		}
		if !matchesCategories(entry, filter.Categories) {
			continue
		}
		if !matchesSearch(entry, filter.SearchQuery) {
			continue
		}
		if !matchesDateRange(entry.Timestamp, filter.From, filter.To) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func matchesChangeTypes(entry core.BudgetLogEntry, types []core.ChangeType) bool {
	if len(types) == 0 {
		return true
	}
	return slices.Contains(types, entry.ChangeType)
}

// matchesCategories matches an entry when a "category" field change moved
// from or to a listed value, or when a full "budget" snapshot belongs to a
// listed category.
func matchesCategories(entry core.BudgetLogEntry, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, change := range entry.Changes {
		switch change.Field {
		case "category":
			if slices.Contains(categories, stringify(change.OldValue)) ||
				slices.Contains(categories, stringify(change.NewValue)) {
				return true
			}
		case "budget":
			for _, v := range []any{change.OldValue, change.NewValue} {
				if cat, ok := snapshotCategory(v); ok && slices.Contains(categories, cat) {
					return true
				}
			}
		}
	}
	return false
}

func matchesSearch(entry core.BudgetLogEntry, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(entry.Reason), q) {
		return true
	}
	for _, change := range entry.Changes {
		if strings.Contains(strings.ToLower(change.Field), q) ||
			strings.Contains(strings.ToLower(stringify(change.OldValue)), q) ||
			strings.Contains(strings.ToLower(stringify(change.NewValue)), q) {
			return true
		}
	}
	return false
}

// matchesDateRange is inclusive on both ends; a zero bound is unbounded on
// that side.
func matchesDateRange(ts, from, to time.Time) bool {
	if !from.IsZero() && ts.Before(from) {
		return false
	}
	if !to.IsZero() && ts.After(to) {
		return false
	}
	return true
}

// snapshotCategory extracts the category from a full budget snapshot. It
// handles both in-memory snapshots and snapshots that went through a JSON
// round trip in storage.
func snapshotCategory(v any) (string, bool) {
	switch snap := v.(type) {
	case core.Budget:
		return string(snap.Category), true
	case *core.Budget:
		if snap == nil {
			return "", false
		}
		return string(snap.Category), true
	case map[string]any:
		if cat, ok := snap["category"].(string); ok {
			return cat, true
		}
	}
	return "", false
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
