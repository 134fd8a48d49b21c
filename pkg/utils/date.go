package utils

import "time"

// DateOnly truncates a time to midnight UTC, the granularity price
// aggregates are keyed on.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysAgo returns the date-only cutoff n days before now.
func DaysAgo(n int) time.Time {
	return DateOnly(time.Now().UTC().AddDate(0, 0, -n))
}
