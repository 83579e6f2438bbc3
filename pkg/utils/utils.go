package utils

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats accepted on the API: RFC3339
// timestamps and plain dates.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// EndOfDay extends t to 23:59:59.999 of the same day, so a day-granularity
// end bound is inclusive of that whole day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// StartOfDay truncates t to midnight of the same day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayWindow returns the inclusive bounds of the day containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	return StartOfDay(t), EndOfDay(t)
}

// MonthWindow returns the inclusive bounds of the calendar month
// containing t.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	lastDay := start.AddDate(0, 1, -1)
	return start, EndOfDay(lastDay)
}

// Slugify collapses whitespace runs to single dashes for use in
// generated filenames.
func Slugify(s string) string {
	return strings.Join(strings.Fields(s), "-")
}
