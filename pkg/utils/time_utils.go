package utils

import (
	"time"
)

const day = 24 * time.Hour

// ElapsedDays returns the number of whole days between since and now.
// Partial days are dropped, so 23h59m is 0 days.
func ElapsedDays(now, since time.Time) int {
	d := now.Sub(since)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// FormatTimestamp renders t in UTC using a fixed layout for reports
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// FileTimestamp renders t in UTC as YYYYMMDD_HHMMSS for artifact names
func FileTimestamp(t time.Time) string {
	return t.UTC().Format("20060102_150405")
}
