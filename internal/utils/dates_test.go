package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-11-10")
	assert.NoError(t, err)
	assert.Equal(t, "2025-11-10", FormatDay(d))

	_, err = ParseDay("11/10/2025")
	assert.Error(t, err)

	_, err = ParseDay("2025-13-40")
	assert.Error(t, err)
}

func TestDayCount(t *testing.T) {
	cases := []struct {
		start, end string
		want       int32
	}{
		{"2025-11-10", "2025-11-10", 1},
		{"2025-11-10", "2025-11-12", 3},
		{"2025-02-27", "2025-03-02", 4},
		{"2024-02-27", "2024-03-02", 5}, // leap year
		{"2025-12-30", "2026-01-02", 4},
	}
	for _, tc := range cases {
		got, err := DayCount(day(t, tc.start), day(t, tc.end))
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got, "[%s..%s]", tc.start, tc.end)
	}

	_, err := DayCount(day(t, "2025-11-12"), day(t, "2025-11-10"))
	assert.Error(t, err)
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name                   string
		s1, e1, s2, e2         string
		want                   bool
	}{
		{"disjoint before", "2025-11-01", "2025-11-05", "2025-11-06", "2025-11-10", false},
		{"adjacent shared day", "2025-11-01", "2025-11-05", "2025-11-05", "2025-11-10", true},
		{"partial tail overlap", "2025-11-10", "2025-11-15", "2025-11-14", "2025-11-18", true},
		{"contained", "2025-11-10", "2025-11-20", "2025-11-12", "2025-11-14", true},
		{"identical", "2025-11-10", "2025-11-15", "2025-11-10", "2025-11-15", true},
		{"disjoint after", "2025-11-20", "2025-11-25", "2025-11-10", "2025-11-15", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RangesOverlap(day(t, tc.s1), day(t, tc.e1), day(t, tc.s2), day(t, tc.e2))
			assert.Equal(t, tc.want, got)
			// Overlap is symmetric.
			assert.Equal(t, tc.want, RangesOverlap(day(t, tc.s2), day(t, tc.e2), day(t, tc.s1), day(t, tc.e1)))
		})
	}
}

func TestDaysIn(t *testing.T) {
	days := DaysIn(day(t, "2025-11-29"), day(t, "2025-12-02"))
	assert.Equal(t, []string{"2025-11-29", "2025-11-30", "2025-12-01", "2025-12-02"}, days)

	assert.Nil(t, DaysIn(day(t, "2025-12-02"), day(t, "2025-11-29")))
}

func TestCoversDay(t *testing.T) {
	start, end := day(t, "2025-11-10"), day(t, "2025-11-15")
	assert.True(t, CoversDay(start, end, day(t, "2025-11-10")))
	assert.True(t, CoversDay(start, end, day(t, "2025-11-15")))
	assert.False(t, CoversDay(start, end, day(t, "2025-11-16")))
	assert.False(t, CoversDay(start, end, day(t, "2025-11-09")))
}
