package util

import "time"

// DateLayout is the calendar day format used for skin log dates.
const DateLayout = "2006-01-02"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TrailingWindowStart returns the first day of a window of `days` calendar days ending on now's day.
func TrailingWindowStart(now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	return StartOfDay(now).AddDate(0, 0, -(days - 1))
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
