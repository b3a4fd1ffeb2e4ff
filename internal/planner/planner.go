package planner

import (
	"time"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/utils"
)

// Options tunes how overdue nudges are generated.
type Options struct {
	// RepeatInterval is the spacing between overdue nudges.
	RepeatInterval time.Duration
	// OverdueWindow bounds the overdue nudges of a single-shot reminder.
	OverdueWindow time.Duration
	// CustomHorizon bounds how far ahead custom recurrences are expanded
	// into individual triggers.
	CustomHorizon time.Duration
}

func DefaultOptions() Options {
	return Options{
		RepeatInterval: constants.DefaultRepeatInterval,
		OverdueWindow:  constants.DefaultOverdueWindow,
		CustomHorizon:  constants.DefaultCustomHorizonDays * 24 * time.Hour,
	}
}

type Planner struct {
	opts Options
}

// New returns a planner. Zero or negative options fall back to the defaults.
func New(opts Options) *Planner {
	def := DefaultOptions()
	if opts.RepeatInterval <= 0 {
		opts.RepeatInterval = def.RepeatInterval
	}
	if opts.OverdueWindow <= 0 {
		opts.OverdueWindow = def.OverdueWindow
	}
	if opts.CustomHorizon <= 0 {
		opts.CustomHorizon = def.CustomHorizon
	}
	return &Planner{opts: opts}
}

func (p *Planner) Options() Options {
	return p.opts
}

// PlanTriggers derives the notification triggers a reminder needs at now.
// Wall-clock fields are taken in now's location.
func (p *Planner) PlanTriggers(r models.Reminder, now time.Time) []models.TriggerSpec {
	if !r.IsRecurring() {
		return p.planSingleShot(r, now)
	}
	return p.planRecurring(r, now)
}

func (p *Planner) planSingleShot(r models.Reminder, now time.Time) []models.TriggerSpec {
	if r.SingleShotState().Completed || !r.DueDate.After(now) {
		return nil
	}

	triggers := []models.TriggerSpec{{
		Kind:    models.TriggerAt,
		At:      r.DueDate,
		Content: dueContent(r.Title),
		Tag:     r.ID,
	}}

	overdue := overdueContent(r.Title, constants.OverdueBody)
	for offset := p.opts.RepeatInterval; offset <= p.opts.OverdueWindow; offset += p.opts.RepeatInterval {
		triggers = append(triggers, models.TriggerSpec{
			Kind:    models.TriggerAt,
			At:      r.DueDate.Add(offset),
			Content: overdue,
			Tag:     r.ID,
			Overdue: true,
		})
	}
	return triggers
}

func (p *Planner) planRecurring(r models.Reminder, now time.Time) []models.TriggerSpec {
	due := r.DueDate.In(now.Location())
	tod := models.TimeOfDay{Hour: due.Hour(), Minute: due.Minute()}

	var triggers []models.TriggerSpec
	switch r.Recurrence.Type {
	case constants.RecurrenceDaily:
		triggers = append(triggers, models.TriggerSpec{Kind: models.TriggerDaily, TimeOfDay: tod})
	case constants.RecurrenceWeekly:
		triggers = append(triggers, models.TriggerSpec{Kind: models.TriggerWeekly, TimeOfDay: tod, Weekday: due.Weekday()})
	case constants.RecurrenceMonthly:
		triggers = append(triggers, models.TriggerSpec{Kind: models.TriggerMonthly, TimeOfDay: tod, Day: due.Day()})
	case constants.RecurrenceCustom:
		triggers = append(triggers, p.customOccurrences(r, now, tod)...)
	default:
		return nil
	}
	for i := range triggers {
		triggers[i].Content = dueContent(r.Title)
		triggers[i].Tag = r.ID
	}

	return append(triggers, models.TriggerSpec{
		Kind:    models.TriggerRepeat,
		Every:   p.opts.RepeatInterval,
		Content: overdueContent(r.Title, constants.RecurringOverdueBody),
		Tag:     r.ID,
		Overdue: true,
	})
}

// customOccurrences expands an every-N-days rule into absolute triggers for
// the occurrences after now that fall inside the planning horizon.
func (p *Planner) customOccurrences(r models.Reminder, now time.Time, tod models.TimeOfDay) []models.TriggerSpec {
	horizon := now.Add(p.opts.CustomHorizon)
	var triggers []models.TriggerSpec
	for _, day := range utils.DueOccurrences(r, now, horizon) {
		at := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour, tod.Minute, 0, 0, now.Location())
		if !at.After(now) || at.After(horizon) {
			continue
		}
		triggers = append(triggers, models.TriggerSpec{Kind: models.TriggerAt, At: at})
	}
	return triggers
}

func dueContent(title string) models.Content {
	return models.Content{
		Title: constants.ReminderTitlePrefix + title,
		Body:  constants.ReminderBody,
	}
}

func overdueContent(title, body string) models.Content {
	return models.Content{
		Title: constants.OverdueTitlePrefix + title,
		Body:  body,
	}
}
