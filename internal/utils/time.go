package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/nudge/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// StartOfDay returns local midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// SameDay reports whether a falls within the calendar day of b, in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return !a.Before(StartOfDay(b)) && !a.After(EndOfDay(b))
}

// DaysBetween returns the number of whole calendar days from the day of from
// to the day of to, both taken in to's location. Rounding absorbs the hour
// gained or lost across a DST transition.
func DaysBetween(from, to time.Time) int {
	start := StartOfDay(from.In(to.Location()))
	end := StartOfDay(to)
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseDueDate accepts "YYYY-MM-DD HH:MM", "YYYY-MM-DD" (09:00) or RFC3339.
func ParseDueDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(constants.DateTimeFormat, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(constants.DateFormat, value, loc); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 9, 0, 0, 0, loc), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q (expected %q or RFC3339)", value, constants.DateTimeFormat)
}
