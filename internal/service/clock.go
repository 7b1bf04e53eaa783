package service

import (
	"math"
	"time"
)

// dayStartIn truncates t to local midnight in loc.
func dayStartIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// noonIn pins t to local noon in loc. Due dates are stored at noon so a
// DST shift or timezone nudge cannot roll them across midnight.
func noonIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
}

// daysBetween counts whole calendar days from a to b. Both are expected
// to be day starts; rounding absorbs DST hour drift.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// dayKey formats t as a calendar-day bucket key.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	firstOfNextMonth := firstOfMonth.AddDate(0, 1, 0)
	lastOfMonth := firstOfNextMonth.AddDate(0, 0, -1)
	return lastOfMonth.Day()
}
