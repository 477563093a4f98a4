package util

import "time"

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DateOnly strips the clock from t and returns the calendar day at midnight UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the number of days in the given month
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CalculateActualDate returns the actual date for a target day in a given month,
// handling months with fewer days (e.g., day 31 in February returns Feb 28/29)
func CalculateActualDate(year int, month time.Month, targetDay int) time.Time {
	actualDay := targetDay
	if lastDay := LastDayOfMonth(year, month); actualDay > lastDay {
		actualDay = lastDay
	}
	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped adds n calendar months to t keeping the day of month, clamped to the
// last day of the resulting month. Unlike time.AddDate it never spills into the next month.
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	// Normalise the month index so negative n works too
	total := int(m) - 1 + n
	year := y + total/12
	monthIdx := total % 12
	if monthIdx < 0 {
		monthIdx += 12
		year--
	}
	return CalculateActualDate(year, time.Month(monthIdx+1), d)
}

// MonthsBetween returns the number of whole calendar months from a to b, ignoring days
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
