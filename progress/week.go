package progress

import (
	"fmt"
	"math"
	"time"
)

// WeekKey returns the calendar-week identifier for t, e.g. "2025-W32".
//
// The week number is ceil((days since Jan 1 + weekday of Jan 1 + 1) / 7),
// with the elapsed days taken fractionally. This is not ISO-8601: week 1 is
// pinned to Jan 1 and the numbering can reach 54 late in the year. Existing
// weekly buckets are keyed by these exact strings, so the formula must not
// be corrected to ISO semantics.
func WeekKey(t time.Time) string {
	t = t.UTC()
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	elapsedDays := t.Sub(jan1).Hours() / 24
	week := int(math.Ceil((elapsedDays + float64(jan1.Weekday()) + 1) / 7))
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}

// midnightUTC truncates t to the start of its UTC calendar day. All day
// boundary decisions (streaks, first-session-of-day checks) use UTC to avoid
// DST double counting.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sameDay reports whether a and b fall on the same UTC calendar day.
func sameDay(a, b time.Time) bool {
	return midnightUTC(a).Equal(midnightUTC(b))
}
