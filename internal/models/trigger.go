package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/nudge/internal/constants"
)

// TriggerKind identifies how a notification trigger fires.
type TriggerKind string

const (
	TriggerAt      TriggerKind = "at"
	TriggerRepeat  TriggerKind = "repeat"
	TriggerDaily   TriggerKind = "daily"
	TriggerWeekly  TriggerKind = "weekly"
	TriggerMonthly TriggerKind = "monthly"
)

// TimeOfDay is a local wall-clock time.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Content is the text shown to the user when a trigger fires.
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TriggerSpec is one request to the scheduler. Tag carries the owning
// reminder's id so its triggers can be found and cancelled later.
type TriggerSpec struct {
	Kind      TriggerKind   `json:"kind"`
	At        time.Time     `json:"at,omitzero"`
	Every     time.Duration `json:"every,omitempty"`
	TimeOfDay TimeOfDay     `json:"timeOfDay,omitzero"`
	Weekday   time.Weekday  `json:"weekday,omitempty"`
	Day       int           `json:"day,omitempty"`
	Content   Content       `json:"content"`
	Tag       string        `json:"tag"`
	Overdue   bool          `json:"overdue,omitempty"`
}

// Describe returns a short human-readable summary of when the trigger fires.
func (t TriggerSpec) Describe() string {
	switch t.Kind {
	case TriggerAt:
		return "at " + t.At.In(time.Local).Format(constants.DateTimeFormat)
	case TriggerRepeat:
		return "every " + t.Every.String()
	case TriggerDaily:
		return "daily at " + t.TimeOfDay.String()
	case TriggerWeekly:
		return fmt.Sprintf("weekly on %s at %s", t.Weekday.String()[:3], t.TimeOfDay)
	case TriggerMonthly:
		return fmt.Sprintf("monthly on day %d at %s", t.Day, t.TimeOfDay)
	default:
		return string(t.Kind)
	}
}
