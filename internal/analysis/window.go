package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Accepted input layouts. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp reads an ISO-8601 timestamp and normalizes it to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// ParseBound reads a range bound. A bare date is the start of that day, or
// the last instant of that day when upper is true.
func ParseBound(s string, upper bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		if upper {
			return EndOfDay(d), nil
		}
		return d, nil
	}
	return ParseTimestamp(s)
}

// ParseRange builds a TimeRange from optional string bounds. Empty strings
// leave that side open.
func ParseRange(from, to string) (internal.TimeRange, error) {
	var tr internal.TimeRange
	if strings.TrimSpace(from) != "" {
		t, err := ParseBound(from, false)
		if err != nil {
			return tr, err
		}
		tr.From = &t
	}
	if strings.TrimSpace(to) != "" {
		t, err := ParseBound(to, true)
		if err != nil {
			return tr, err
		}
		tr.To = &t
	}
	return tr, nil
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// MonthRange covers the whole calendar month in UTC.
func MonthRange(year int, month time.Month) internal.TimeRange {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := EndOfDay(from.AddDate(0, 1, -1))
	return internal.TimeRange{From: &from, To: &to}
}

// TwoWeekWindow returns the 14-day window starting on the Monday of the week
// containing now, shifted by offset windows (negative for the past).
func TwoWeekWindow(now time.Time, offset int) internal.TimeRange {
	now = now.UTC()
	wd := int(now.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := StartOfDay(now.AddDate(0, 0, -(wd - 1)))
	from := monday.AddDate(0, 0, offset*14)
	to := EndOfDay(from.AddDate(0, 0, 13))
	return internal.TimeRange{From: &from, To: &to}
}

// TrailingDays covers the days before now up to and including now.
func TrailingDays(now time.Time, days int) internal.TimeRange {
	to := now.UTC()
	from := to.AddDate(0, 0, -days)
	return internal.TimeRange{From: &from, To: &to}
}
