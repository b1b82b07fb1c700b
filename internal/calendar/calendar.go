// Package calendar provides trading-day arithmetic over a static market
// holiday list. All functions are pure; dates are compared at day granularity
// in the date's own location.
package calendar

import (
	"fmt"
	"time"
)

// DateFormat is the ISO date format used throughout the service.
const DateFormat = "2006-01-02"

// maxSteps bounds the day-stepping loops. Real market calendars never have
// gaps anywhere near this long, so hitting the bound means the holiday table
// is malformed.
const maxSteps = 30

// holidays lists North American market holidays (NYSE/NASDAQ plus TSX) as
// ISO dates, one block per covered year.
var holidays = map[string]struct{}{
	// 2024
	"2024-01-01": {}, "2024-01-15": {}, "2024-02-19": {}, "2024-03-29": {},
	"2024-05-20": {}, "2024-05-27": {}, "2024-06-19": {}, "2024-07-01": {},
	"2024-07-04": {}, "2024-08-05": {}, "2024-09-02": {}, "2024-10-14": {},
	"2024-11-28": {}, "2024-12-25": {}, "2024-12-26": {},

	// 2025
	"2025-01-01": {}, "2025-01-20": {}, "2025-02-17": {}, "2025-04-18": {},
	"2025-05-19": {}, "2025-05-26": {}, "2025-06-19": {}, "2025-07-01": {},
	"2025-07-04": {}, "2025-08-04": {}, "2025-09-01": {}, "2025-10-13": {},
	"2025-11-27": {}, "2025-12-25": {}, "2025-12-26": {},

	// 2026
	"2026-01-01": {}, "2026-01-19": {}, "2026-02-16": {}, "2026-04-03": {},
	"2026-05-18": {}, "2026-05-25": {}, "2026-06-19": {}, "2026-07-01": {},
	"2026-07-03": {}, "2026-08-03": {}, "2026-09-07": {}, "2026-10-12": {},
	"2026-11-26": {}, "2026-12-25": {}, "2026-12-28": {},
}

// IsHoliday reports whether the date is a listed market holiday.
func IsHoliday(date time.Time) bool {
	_, ok := holidays[date.Format(DateFormat)]
	return ok
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsTradingDay reports whether the date is a weekday that is not a holiday.
func IsTradingDay(date time.Time) bool {
	return !IsWeekend(date) && !IsHoliday(date)
}

// PreviousTradingDay returns the closest trading day strictly before date.
func PreviousTradingDay(date time.Time) (time.Time, error) {
	return step(date, -1)
}

// NextTradingDay returns the closest trading day strictly after date.
func NextTradingDay(date time.Time) (time.Time, error) {
	return step(date, 1)
}

func step(date time.Time, dir int) (time.Time, error) {
	d := date
	for i := 0; i < maxSteps; i++ {
		d = d.AddDate(0, 0, dir)
		if IsTradingDay(d) {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("no trading day within %d days of %s: holiday table malformed", maxSteps, date.Format(DateFormat))
}

// ShouldCompare reports whether a change comparison between today and
// yesterday is valid: both must be trading days and yesterday must be exactly
// the previous trading day of today. Anything else is an unexpected gap.
func ShouldCompare(today, yesterday time.Time) bool {
	if !IsTradingDay(today) || !IsTradingDay(yesterday) {
		return false
	}
	prev, err := PreviousTradingDay(today)
	if err != nil {
		return false
	}
	return sameDay(prev, yesterday)
}

// NoChangeReason returns a human-readable explanation for why no change
// comparison applies on the given date.
func NoChangeReason(date time.Time) string {
	if IsWeekend(date) {
		return "Markets closed - Weekend"
	}
	if IsHoliday(date) {
		return "Markets closed - Holiday"
	}
	prev, err := PreviousTradingDay(date)
	if err != nil {
		return "No recent trading day found"
	}
	if gap := int(date.Sub(prev).Hours() / 24); gap > 3 {
		return fmt.Sprintf("Previous trading day is %d days back (%s)", gap, prev.Format(DateFormat))
	}
	return ""
}

func sameDay(a, b time.Time) bool {
	return a.Format(DateFormat) == b.Format(DateFormat)
}
