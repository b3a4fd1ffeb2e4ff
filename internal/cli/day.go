package cli

import (
	"github.com/julianstephens/nudge/internal/constants"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, default today)."`
}

func (c *DayCmd) Run(ctx *Context) error {
	date, err := ctx.parseDay(c.Date)
	if err != nil {
		return err
	}

	due, err := ctx.Service().DueOn(ctx.baseContext(), date)
	if err != nil {
		return err
	}

	dateStr := date.Format(constants.DateFormat)
	ctx.printf("%s\n\n", headerStyle.Render("Due on "+dateStr))

	if len(due) == 0 {
		ctx.printf("  Nothing due\n")
		return nil
	}

	for _, o := range due {
		mark := pendingStyle.Render("[ ]")
		if o.Completed {
			mark = doneStyle.Render("[x]")
		}
		r := o.Reminder
		ctx.printf("%s %s  %-30s  %s\n", mark,
			r.DueDate.In(ctx.Location).Format(constants.TimeFormat),
			r.Title, mutedStyle.Render(r.FormatRecurrence()))
	}

	return nil
}
