// Package timeutil provides the calendar helpers used to bound report and
// kline windows: day boundaries some number of days back, rendered either
// as display strings or as epoch milliseconds.
package timeutil

import "time"

// Layout is the display format for day-boundary strings.
const Layout = "2006-01-02 15:04:05"

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last second of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// Timestamp converts t to epoch milliseconds, the unit exchange APIs use
// for window bounds.
func Timestamp(t time.Time) int64 {
	return t.UnixMilli()
}

// StartDatetimeAgo renders midnight of the day `days` back from today.
func StartDatetimeAgo(days int) string {
	return StartOfDay(daysAgo(days)).Format(Layout)
}

// EndDatetimeAgo renders the last second of the day `days` back from today.
func EndDatetimeAgo(days int) string {
	return EndOfDay(daysAgo(days)).Format(Layout)
}

// StartMillisecondsAgo returns midnight of the day `days` back from today
// as epoch milliseconds.
func StartMillisecondsAgo(days int) int64 {
	return Timestamp(StartOfDay(daysAgo(days)))
}

// EndMillisecondsAgo returns the last second of the day `days` back from
// today as epoch milliseconds.
func EndMillisecondsAgo(days int) int64 {
	return Timestamp(EndOfDay(daysAgo(days)))
}

func daysAgo(days int) time.Time {
	return time.Now().AddDate(0, 0, -days)
}
