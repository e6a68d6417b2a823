package leave

import (
	"strings"
	"time"

	"leavedesk/internal/domain/workday"
)

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts a calendar date or a timestamp and returns the calendar
// date it names, at midnight UTC.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return workday.Normalize(t), true
		}
	}
	return time.Time{}, false
}
