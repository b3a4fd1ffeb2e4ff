package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/reminders"
	"github.com/julianstephens/nudge/internal/utils"
)

type AddCmd struct {
	Title       string `arg:"" optional:"" help:"Reminder title."`
	Due         string `short:"d" help:"Due time (YYYY-MM-DD HH:MM, YYYY-MM-DD or RFC3339)."`
	Every       string `short:"e" help:"Repeat: daily|weekly|monthly|custom."`
	Days        int    `help:"Days between occurrences for custom recurrence." default:"1"`
	Interactive bool   `short:"i" help:"Fill in the reminder with a form."`
}

func (c *AddCmd) Run(ctx *Context) error {
	form := reminderForm{
		Title: c.Title,
		Due:   c.Due,
		Every: c.Every,
		Days:  strconv.Itoa(c.Days),
	}

	if c.Interactive || strings.TrimSpace(c.Title) == "" {
		if err := newReminderForm(&form, ctx.Location).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				ctx.printf("Cancelled\n")
				return nil
			}
			return err
		}
	}

	draft, err := form.draft(ctx.Location)
	if err != nil {
		return err
	}

	r, err := ctx.Service().Create(ctx.baseContext(), draft)
	if r.ID == "" {
		return err
	}

	ctx.printf("Added reminder: %s (ID: %s)\n", r.Title, r.ID)
	ctx.printf("  %s, due %s\n", r.FormatRecurrence(), r.DueDate.In(ctx.Location).Format(constants.DateTimeFormat))
	return err
}

// reminderForm holds the raw text of the add form.
type reminderForm struct {
	Title string
	Due   string
	Every string
	Days  string
}

func (f reminderForm) draft(loc *time.Location) (reminders.Draft, error) {
	if strings.TrimSpace(f.Title) == "" {
		return reminders.Draft{}, fmt.Errorf("title cannot be empty")
	}
	if strings.TrimSpace(f.Due) == "" {
		return reminders.Draft{}, fmt.Errorf("due time is required (--due)")
	}
	due, err := utils.ParseDueDate(strings.TrimSpace(f.Due), loc)
	if err != nil {
		return reminders.Draft{}, err
	}

	days := 0
	if strings.TrimSpace(f.Days) != "" {
		days, err = strconv.Atoi(strings.TrimSpace(f.Days))
		if err != nil {
			return reminders.Draft{}, fmt.Errorf("invalid days %q: %w", f.Days, err)
		}
	}
	rec, err := models.ParseRecurrence(f.Every, days)
	if err != nil {
		return reminders.Draft{}, err
	}

	return reminders.Draft{Title: f.Title, DueDate: due, Recurrence: rec}, nil
}

func newReminderForm(f *reminderForm, loc *time.Location) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Due").
				Description("YYYY-MM-DD HH:MM").
				Value(&f.Due).
				Validate(func(s string) error {
					_, err := utils.ParseDueDate(strings.TrimSpace(s), loc)
					return err
				}),
			huh.NewSelect[string]().
				Title("Repeat").
				Options(
					huh.NewOption("Once", ""),
					huh.NewOption("Daily", string(constants.RecurrenceDaily)),
					huh.NewOption("Weekly", string(constants.RecurrenceWeekly)),
					huh.NewOption("Monthly", string(constants.RecurrenceMonthly)),
					huh.NewOption("Every N Days", string(constants.RecurrenceCustom)),
				).
				Value(&f.Every),
			huh.NewInput().
				Title("Interval (days)").
				Description("For 'Every N Days'").
				Value(&f.Days).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("interval must be a positive number of days")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
