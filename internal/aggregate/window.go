package aggregate

import (
	"time"

	"fintrack/internal/core"
)

// monthStart returns midnight on the first of now's month, in now's location.
func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// prevMonthStart returns midnight on the first of the month before now's.
func prevMonthStart(now time.Time) time.Time {
	return monthStart(now).AddDate(0, -1, 0)
}

// PeriodStart returns the start of the budget period containing now. Weeks
// start on Monday.
func PeriodStart(period core.BudgetPeriod, now time.Time) time.Time {
	switch period {
	case core.Weekly:
		offset := (int(now.Weekday()) + 6) % 7
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return day.AddDate(0, 0, -offset)
	case core.Yearly:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default:
		return monthStart(now)
	}
}

// inWindow reports whether t falls in [start, end).
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
