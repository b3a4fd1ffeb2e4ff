package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/nudge/internal/constants"
)

// ErrInvalidReminder is wrapped by every validation failure.
var ErrInvalidReminder = errors.New("invalid reminder")

// Recurrence describes how a reminder repeats. A nil *Recurrence means the
// reminder fires once.
type Recurrence struct {
	Type       constants.RecurrenceType `json:"type"`
	CustomDays int                      `json:"customDays,omitempty"`
}

// Interval returns the custom interval in days, clamped to at least one.
func (r Recurrence) Interval() int {
	if r.CustomDays < 1 {
		return 1
	}
	return r.CustomDays
}

// CompletionState is either SingleShot or Recurring.
type CompletionState interface {
	isCompletionState()
}

// SingleShot tracks completion of a reminder that fires once.
type SingleShot struct {
	Completed   bool
	CompletedAt *time.Time
}

// Recurring tracks the occurrences of a recurring reminder that were completed.
// Each entry marks the whole local calendar day it falls on.
type Recurring struct {
	CompletedDates []time.Time
}

func (SingleShot) isCompletionState() {}
func (Recurring) isCompletionState()  {}

type Reminder struct {
	ID         string
	Title      string
	DueDate    time.Time
	CreatedAt  time.Time
	Recurrence *Recurrence
	Completion CompletionState
}

// IsRecurring reports whether the reminder has a recurrence rule.
func (r *Reminder) IsRecurring() bool {
	return r.Recurrence != nil
}

// SingleShotState returns the single-shot completion, or the zero value when
// the reminder is recurring.
func (r *Reminder) SingleShotState() SingleShot {
	if s, ok := r.Completion.(SingleShot); ok {
		return s
	}
	return SingleShot{}
}

// RecurringState returns the recurring completion, or the zero value when the
// reminder fires once.
func (r *Reminder) RecurringState() Recurring {
	if s, ok := r.Completion.(Recurring); ok {
		return s
	}
	return Recurring{}
}

// NormalizeCompletion makes the completion variant agree with the recurrence
// rule. A mismatched variant is replaced by the zero value of the right one.
func (r *Reminder) NormalizeCompletion() {
	if r.IsRecurring() {
		if _, ok := r.Completion.(Recurring); !ok {
			r.Completion = Recurring{}
		}
		return
	}
	if _, ok := r.Completion.(SingleShot); !ok {
		r.Completion = SingleShot{}
	}
}

// Clone returns a deep copy of the reminder.
func (r Reminder) Clone() Reminder {
	out := r
	if r.Recurrence != nil {
		rec := *r.Recurrence
		out.Recurrence = &rec
	}
	switch c := r.Completion.(type) {
	case SingleShot:
		if c.CompletedAt != nil {
			at := *c.CompletedAt
			c.CompletedAt = &at
		}
		out.Completion = c
	case Recurring:
		dates := make([]time.Time, len(c.CompletedDates))
		copy(dates, c.CompletedDates)
		out.Completion = Recurring{CompletedDates: dates}
	}
	return out
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidReminder)
	}
	if r.ID == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidReminder)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("%w: due date cannot be empty", ErrInvalidReminder)
	}
	if r.Recurrence != nil {
		if err := r.Recurrence.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CheckStored accepts any record that can be evaluated: an id, a title, a due
// date and a known recurrence type. A custom interval below one day is left
// for Interval to clamp.
func (r *Reminder) CheckStored() error {
	if r.ID == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidReminder)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidReminder)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("%w: due date cannot be empty", ErrInvalidReminder)
	}
	if r.Recurrence != nil && !r.Recurrence.Type.Known() {
		return fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidReminder, r.Recurrence.Type)
	}
	return nil
}

func (r Recurrence) Validate() error {
	switch r.Type {
	case constants.RecurrenceDaily, constants.RecurrenceWeekly, constants.RecurrenceMonthly:
		return nil
	case constants.RecurrenceCustom:
		if r.CustomDays < 1 {
			return fmt.Errorf("%w: custom recurrence needs at least 1 day between occurrences", ErrInvalidReminder)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidReminder, r.Type)
	}
}

// ParseRecurrence builds a recurrence from user input. An empty type or
// "none" means the reminder fires once.
func ParseRecurrence(kind string, customDays int) (*Recurrence, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "none", "once":
		return nil, nil
	}
	rec := &Recurrence{Type: constants.RecurrenceType(strings.ToLower(strings.TrimSpace(kind)))}
	if rec.Type == constants.RecurrenceCustom {
		rec.CustomDays = customDays
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// FormatRecurrence returns a human-readable string describing the reminder's recurrence pattern
func (r *Reminder) FormatRecurrence() string {
	if r.Recurrence == nil {
		return "Once"
	}
	due := r.DueDate.In(time.Local)
	switch r.Recurrence.Type {
	case constants.RecurrenceDaily:
		return fmt.Sprintf("Daily at %s", due.Format(constants.TimeFormat))
	case constants.RecurrenceWeekly:
		return fmt.Sprintf("Weekly on %s at %s", due.Weekday().String()[:3], due.Format(constants.TimeFormat))
	case constants.RecurrenceMonthly:
		return fmt.Sprintf("Monthly on day %d at %s", due.Day(), due.Format(constants.TimeFormat))
	case constants.RecurrenceCustom:
		if r.Recurrence.Interval() == 1 {
			return "Daily"
		}
		return fmt.Sprintf("Every %d days", r.Recurrence.Interval())
	default:
		return string(r.Recurrence.Type)
	}
}

// reminderRecord is the persisted shape. Both completion representations
// share one flat object; only the one matching the recurrence rule is kept.
type reminderRecord struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	DueDate        time.Time   `json:"dueDate"`
	CreatedAt      time.Time   `json:"createdAt"`
	Recurrence     *Recurrence `json:"recurrence,omitempty"`
	Completed      bool        `json:"completed"`
	CompletedAt    *time.Time  `json:"completedAt,omitempty"`
	CompletedDates []time.Time `json:"completedDates,omitempty"`
}

func (r Reminder) MarshalJSON() ([]byte, error) {
	rec := reminderRecord{
		ID:         r.ID,
		Title:      r.Title,
		DueDate:    r.DueDate,
		CreatedAt:  r.CreatedAt,
		Recurrence: r.Recurrence,
	}
	if r.IsRecurring() {
		rec.CompletedDates = r.RecurringState().CompletedDates
	} else {
		s := r.SingleShotState()
		rec.Completed = s.Completed
		rec.CompletedAt = s.CompletedAt
	}
	return json.Marshal(rec)
}

func (r *Reminder) UnmarshalJSON(data []byte) error {
	var rec reminderRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*r = Reminder{
		ID:         rec.ID,
		Title:      rec.Title,
		DueDate:    rec.DueDate,
		CreatedAt:  rec.CreatedAt,
		Recurrence: rec.Recurrence,
	}
	if r.IsRecurring() {
		r.Completion = Recurring{CompletedDates: rec.CompletedDates}
	} else {
		r.Completion = SingleShot{Completed: rec.Completed, CompletedAt: rec.CompletedAt}
	}
	return nil
}
