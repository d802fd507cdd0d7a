// Package datetime provides date utility functions for schedule generation.
package datetime

import (
	"time"

	"github.com/Oldmanrunning/HELOC/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the
	// output date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses an ISO (YYYY-MM-DD) date string.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateTimeLayout, dateStr)
}

// OffsetMonths returns the given date shifted by the given number of calendar
// months. Schedule row dates are start date + (period-1) months.
func OffsetMonths(date time.Time, months int) time.Time {
	return date.AddDate(0, months, 0)
}

// Truncate strips the time-of-day component, leaving a bare calendar date in
// the original location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDate renders a date in the ISO output layout.
func FormatDate(t time.Time) string {
	return t.Format(DateTimeLayout)
}
