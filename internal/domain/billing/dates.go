package billing

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Day returns the calendar date of t as midnight UTC. The wall-clock date in
// t's own location is kept; no timezone conversion happens.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the whole number of days from a to b, rounding any
// partial day up. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	hours := Day(b).Sub(Day(a)).Hours()
	days := int(hours / 24)
	if float64(days*24) < hours {
		days++
	}
	return days
}

// MonthBounds returns the first and last calendar day of the month containing d.
func MonthBounds(d time.Time) (time.Time, time.Time) {
	y, m, _ := d.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// CompetenceLayout is the YYYY-MM month key used by product usage records.
const CompetenceLayout = "2006-01"

// ParseCompetence validates a YYYY-MM competence month.
func ParseCompetence(s string) (time.Time, error) {
	t, err := time.Parse(CompetenceLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid competence month %q: %w", s, err)
	}
	return t, nil
}
