package utils

import (
	"fmt"
	"time"
)

// DayFormat is the wire and storage format for calendar days. The booking
// engine works at day granularity only; all days are UTC.
const DayFormat = "2006-01-02"

// ParseDay converts a yyyy-mm-dd string into a UTC midnight time.Time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd: %w", s, err)
	}
	return t.UTC(), nil
}

// FormatDay renders t as a yyyy-mm-dd string.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Today returns the current UTC day at midnight.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// DayCount returns the number of calendar days in [start, end], counting
// both ends. A one-day rental has DayCount 1.
func DayCount(start, end time.Time) (int32, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("end date %s before start date %s", FormatDay(end), FormatDay(start))
	}
	return int32(end.Sub(start).Hours()/24) + 1, nil
}

// RangesOverlap reports whether the inclusive day ranges [s1,e1] and
// [s2,e2] share at least one calendar day.
func RangesOverlap(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

// DaysIn enumerates every day of the inclusive range [start, end] as
// yyyy-mm-dd strings.
func DaysIn(start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDay(d))
	}
	return days
}

// CoversDay reports whether day falls inside the inclusive range [start, end].
func CoversDay(start, end, day time.Time) bool {
	return !day.Before(start) && !day.After(end)
}
