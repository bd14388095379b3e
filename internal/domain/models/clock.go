package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical calendar date format (YYYY-MM-DD).
	DateLayout = "2006-01-02"
	// ClockLayout is the 24-hour clock format (HH:MM).
	ClockLayout = "15:04"
	// DisplayDateLayout is only used to render dates for people (DD/MM/YYYY).
	DisplayDateLayout = "02/01/2006"
)

// ParseDate parses a canonical YYYY-MM-DD string in the given location.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
}

// ParseClock validates an HH:MM string and returns its hour and minute.
func ParseClock(value string) (hour, minute int, err error) {
	if len(value) != len(ClockLayout) {
		return 0, 0, fmt.Errorf("clock %q must be HH:MM", value)
	}
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return 0, 0, fmt.Errorf("clock %q must be HH:MM: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}

// At combines a canonical date and an HH:MM clock into an instant.
func At(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatClock renders t as HH:MM.
func FormatClock(t time.Time) string { return t.Format(ClockLayout) }

// HourKey truncates an HH:MM string to its hour bucket ("09:45" -> "09:00").
// The stored string is used verbatim, without rounding.
func HourKey(clock string) string {
	if len(clock) < 2 {
		return ""
	}
	return clock[:2] + ":00"
}

// DisplayDate converts YYYY-MM-DD into DD/MM/YYYY; unparsable input is returned unchanged.
func DisplayDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(DisplayDateLayout)
}

// Millis returns the Unix millisecond timestamp used as record ordering key.
func Millis(t time.Time) int64 { return t.UnixMilli() }
