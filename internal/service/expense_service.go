package service

import (
	"time"

	"pocket-planner/internal/model"
)

// IsExpenseDueOnDay reports whether a recurring expense comes due on the
// calendar day starting at dayStart. Stateless: the stored anchor is
// never re-written, every day is evaluated fresh against it.
func IsExpenseDueOnDay(expense model.Expense, dayStart time.Time) bool {
	expense = expense.Normalized()
	loc := dayStart.Location()
	anchorDay := dayStartIn(expense.Date, loc)
	if dayStart.Before(anchorDay) {
		return false
	}

	switch expense.Frequency {
	case model.FrequencyWeekly:
		return daysBetween(anchorDay, dayStart)%7 == 0
	case model.FrequencyMonthly:
		// Clamp the anchor's day-of-month to the target month, so an
		// expense anchored on the 31st still fires in February.
		dueDay := anchorDay.Day()
		if last := daysInMonth(dayStart.Month(), dayStart.Year()); dueDay > last {
			dueDay = last
		}
		return dayStart.Day() == dueDay
	default:
		return false
	}
}

// ExpenseOccurrencesInWindow lists the day starts within
// [windowStart, windowStart+days) on which the expense is due.
func ExpenseOccurrencesInWindow(expense model.Expense, windowStart time.Time, days int) []time.Time {
	var due []time.Time
	for i := 0; i < days; i++ {
		day := windowStart.AddDate(0, 0, i)
		if IsExpenseDueOnDay(expense, day) {
			due = append(due, day)
		}
	}
	return due
}
