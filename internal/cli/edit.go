package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/utils"
)

type EditCmd struct {
	ID    string `arg:"" help:"Reminder ID."`
	Title string `short:"t" help:"New title."`
	Due   string `short:"d" help:"New due time (YYYY-MM-DD HH:MM)."`
	Every string `short:"e" help:"New recurrence: daily|weekly|monthly|custom."`
	Days  int    `help:"Days between occurrences for custom recurrence."`
	Once  bool   `help:"Make the reminder fire once."`
}

func (c *EditCmd) Validate() error {
	if c.Once && c.Every != "" {
		return fmt.Errorf("--once cannot be combined with --every")
	}
	return nil
}

func (c *EditCmd) Run(ctx *Context) error {
	id, err := ctx.resolveID(c.ID)
	if err != nil {
		return err
	}
	svc := ctx.Service()
	r, err := svc.Get(ctx.baseContext(), id)
	if err != nil {
		return err
	}

	if strings.TrimSpace(c.Title) != "" {
		r.Title = c.Title
	}
	if c.Due != "" {
		due, err := utils.ParseDueDate(c.Due, ctx.Location)
		if err != nil {
			return err
		}
		r.DueDate = due
	}
	switch {
	case c.Once:
		r.Recurrence = nil
	case c.Every != "":
		days := c.Days
		if days == 0 && r.Recurrence != nil {
			days = r.Recurrence.CustomDays
		}
		rec, err := models.ParseRecurrence(c.Every, days)
		if err != nil {
			return err
		}
		r.Recurrence = rec
	case c.Days > 0 && r.Recurrence != nil && r.Recurrence.Type == constants.RecurrenceCustom:
		r.Recurrence.CustomDays = c.Days
	}

	updated, err := svc.Update(ctx.baseContext(), r)
	if updated.ID == "" {
		return err
	}
	ctx.printf("Updated reminder: %s (%s)\n", updated.Title, updated.FormatRecurrence())
	return err
}
