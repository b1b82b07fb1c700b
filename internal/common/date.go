package common

import (
	"fmt"
	"time"
)

// DateFormat is the ISO date format used by all service APIs.
const DateFormat = "2006-01-02"

// ResolveDate parses an ISO date string, defaulting to today when empty.
// Returns the normalized string form and the parsed day.
func ResolveDate(date string) (string, time.Time, error) {
	if date == "" {
		now := time.Now()
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return day.Format(DateFormat), day, nil
	}

	day, err := time.Parse(DateFormat, date)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, err)
	}
	return day.Format(DateFormat), day, nil
}
