// Package dateutils holds the date layouts used by brokerage exports and the
// budgeting import format.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

const (
	// LayoutCompleted is the "Date Completed" timestamp layout of the export.
	LayoutCompleted = "2006-01-02 15:04:05.000000"
	// LayoutUS is the display date layout of the import file.
	LayoutUS = "01/02/2006"
	// LayoutISO is the calendar date layout accepted on the command line.
	LayoutISO = "2006-01-02"
	// LayoutISODateTime is accepted for cutoffs that need a time of day.
	LayoutISODateTime = "2006-01-02 15:04:05"
)

// ParseCompleted parses an export timestamp. Only LayoutCompleted is
// accepted; the timestamp is interpreted in UTC.
func ParseCompleted(s string) (time.Time, error) {
	return time.Parse(LayoutCompleted, strings.TrimSpace(s))
}

// FormatUS formats t as MM/DD/YYYY.
func FormatUS(t time.Time) string {
	return t.Format(LayoutUS)
}

// ParseDay parses a user supplied date, either YYYY-MM-DD (midnight) or
// YYYY-MM-DD HH:MM:SS, in UTC.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{LayoutISO, LayoutISODateTime, LayoutCompleted} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date '%s' (expected YYYY-MM-DD)", s)
}

// DaysAgo returns midnight UTC of the day n days before now.
func DaysAgo(now time.Time, n int) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -n)
}
