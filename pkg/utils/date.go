package utils

import (
	"time"
)

// DateOnly truncates t to a timezone-naive calendar date (midnight UTC).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

// Window is a half-open [Start, End) date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// ChunkWindow splits [start, end) into consecutive windows of at most
// chunkDays days. The windows tile the range exactly: no gaps, no
// overlaps, and the final window never extends past end.
func ChunkWindow(start, end time.Time, chunkDays int) []Window {
	start = DateOnly(start)
	end = DateOnly(end)

	var windows []Window
	current := start
	for current.Before(end) {
		chunkEnd := current.AddDate(0, 0, chunkDays)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		windows = append(windows, Window{Start: current, End: chunkEnd})
		current = chunkEnd
	}
	return windows
}
