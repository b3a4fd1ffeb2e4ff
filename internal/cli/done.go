package cli

import (
	"fmt"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/utils"
)

type DoneCmd struct {
	ID   string `arg:"" help:"Reminder ID."`
	Date string `help:"Occurrence to toggle (YYYY-MM-DD, default today)."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	date := ctx.now()
	if c.Date != "" {
		day, err := ctx.parseDay(c.Date)
		if err != nil {
			return err
		}
		date = day
	}

	id, err := ctx.resolveID(c.ID)
	if err != nil {
		return err
	}
	r, ok, err := ctx.Service().ToggleCompletion(ctx.baseContext(), id, date)
	if !ok {
		if err != nil {
			return err
		}
		return fmt.Errorf("reminder %s not found", c.ID)
	}

	state := "not done"
	if utils.IsCompletedOnDate(r, date) {
		state = "done"
	}
	if r.IsRecurring() {
		ctx.printf("Marked %s %s for %s\n", r.Title, state, date.Format(constants.DateFormat))
	} else {
		ctx.printf("Marked %s %s\n", r.Title, state)
	}
	return err
}
