package utils

import (
	"time"

	"github.com/julianstephens/nudge/internal/models"
)

// IsCompletedOnDate reports whether the occurrence on date's calendar day is
// complete. Single-shot reminders ignore date.
func IsCompletedOnDate(r models.Reminder, date time.Time) bool {
	if !r.IsRecurring() {
		return r.SingleShotState().Completed
	}
	for _, d := range r.RecurringState().CompletedDates {
		if SameDay(d, date) {
			return true
		}
	}
	return false
}

// ToggleCompletion flips the completion of the occurrence on date and returns
// the updated reminder. The input is left untouched.
func ToggleCompletion(r models.Reminder, date time.Time) models.Reminder {
	out := r.Clone()
	out.NormalizeCompletion()

	if !out.IsRecurring() {
		s := out.SingleShotState()
		s.Completed = !s.Completed
		s.CompletedAt = nil
		if s.Completed {
			at := date
			s.CompletedAt = &at
		}
		out.Completion = s
		return out
	}

	dates := out.RecurringState().CompletedDates
	kept := make([]time.Time, 0, len(dates)+1)
	for _, d := range dates {
		if !SameDay(d, date) {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(dates) {
		kept = append(kept, date)
	}
	out.Completion = models.Recurring{CompletedDates: kept}
	return out
}
