package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate extracts a UTC date (midnight) from a loosely formatted date
// string. Returns false when the text does not contain a recognizable date.
func ParseDate(text string) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return truncateToDate(t), true
	}
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return truncateToDate(t), true
	}

	t, err := dateparse.ParseIn(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return truncateToDate(t), true
}

// ParseTimestamp extracts a UTC timestamp, keeping the time-of-day component.
func ParseTimestamp(text string) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t.UTC(), true
	}

	t, err := dateparse.ParseIn(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
