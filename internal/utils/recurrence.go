package utils

import (
	"time"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/models"
)

// IsDueOnDate reports whether the reminder has an occurrence on date's local
// calendar day. The due date is compared in date's location.
func IsDueOnDate(r models.Reminder, date time.Time) bool {
	due := r.DueDate.In(date.Location())
	if !r.IsRecurring() {
		return SameDay(due, date)
	}

	daysDiff := DaysBetween(due, date)
	if daysDiff < 0 {
		return false
	}

	switch r.Recurrence.Type {
	case constants.RecurrenceDaily:
		return true
	case constants.RecurrenceWeekly:
		return daysDiff%7 == 0
	case constants.RecurrenceMonthly:
		// Days missing from a short month (e.g. the 31st in April) are skipped
		return date.Day() == due.Day()
	case constants.RecurrenceCustom:
		return daysDiff%r.Recurrence.Interval() == 0
	default:
		return false
	}
}

// DueOccurrences returns the start of every local day in [from, to] on which
// the reminder is due, in from's location.
func DueOccurrences(r models.Reminder, from, to time.Time) []time.Time {
	var days []time.Time
	end := StartOfDay(to.In(from.Location()))
	for day := StartOfDay(from); !day.After(end); day = day.AddDate(0, 0, 1) {
		if IsDueOnDate(r, day) {
			days = append(days, day)
		}
	}
	return days
}
