package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/nudge/internal/models"
)

var (
	ErrInvalidTrigger = errors.New("scheduler: invalid trigger")
	ErrStopped        = errors.New("scheduler: stopped")
)

// Handle identifies one registered trigger.
type Handle string

// Scheduled is a registered trigger as reported by ListScheduled.
type Scheduled struct {
	Handle  Handle
	Tag     string
	Trigger models.TriggerSpec
}

// Scheduler registers notification triggers with the local notification service.
type Scheduler interface {
	Schedule(ctx context.Context, spec models.TriggerSpec) (Handle, error)
	// Cancel removes a trigger. Unknown handles are ignored.
	Cancel(ctx context.Context, h Handle) error
	ListScheduled(ctx context.Context) ([]Scheduled, error)
	CancelAll(ctx context.Context) error
}

// PermissionRequester is implemented by schedulers that must be allowed to
// show notifications before they can deliver them.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) error
}

// Deliverer shows the content of a fired trigger to the user.
type Deliverer interface {
	Deliver(ctx context.Context, content models.Content) error
}

// Validate checks that a trigger carries everything its kind needs.
func Validate(spec models.TriggerSpec) error {
	switch spec.Kind {
	case models.TriggerAt:
		if spec.At.IsZero() {
			return fmt.Errorf("%w: missing fire time", ErrInvalidTrigger)
		}
	case models.TriggerRepeat:
		if spec.Every < time.Second {
			return fmt.Errorf("%w: repeat interval %s is below one second", ErrInvalidTrigger, spec.Every)
		}
	case models.TriggerDaily, models.TriggerWeekly, models.TriggerMonthly:
		if spec.TimeOfDay.Hour < 0 || spec.TimeOfDay.Hour > 23 || spec.TimeOfDay.Minute < 0 || spec.TimeOfDay.Minute > 59 {
			return fmt.Errorf("%w: time of day %s out of range", ErrInvalidTrigger, spec.TimeOfDay)
		}
		if spec.Kind == models.TriggerWeekly && (spec.Weekday < time.Sunday || spec.Weekday > time.Saturday) {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidTrigger, spec.Weekday)
		}
		if spec.Kind == models.TriggerMonthly && (spec.Day < 1 || spec.Day > 31) {
			return fmt.Errorf("%w: day of month %d out of range", ErrInvalidTrigger, spec.Day)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTrigger, spec.Kind)
	}
	return nil
}

// FilterByTag returns the scheduled triggers carrying tag.
func FilterByTag(all []Scheduled, tag string) []Scheduled {
	var out []Scheduled
	for _, s := range all {
		if s.Tag == tag {
			out = append(out, s)
		}
	}
	return out
}
