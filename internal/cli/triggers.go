package cli

import "github.com/julianstephens/nudge/internal/constants"

type TriggersCmd struct {
	ID  string `arg:"" help:"Reminder ID."`
	All bool   `short:"a" help:"Show every trigger instead of the first ten."`
}

const triggerPreview = 10

func (c *TriggersCmd) Run(ctx *Context) error {
	id, err := ctx.resolveID(c.ID)
	if err != nil {
		return err
	}
	r, err := ctx.Service().Get(ctx.baseContext(), id)
	if err != nil {
		return err
	}

	triggers := ctx.Planner.PlanTriggers(r, ctx.now())
	ctx.printf("%s\n", headerStyle.Render(r.Title))
	if len(triggers) == 0 {
		ctx.printf("  No notifications planned\n")
		return nil
	}

	ctx.printf("  %d notifications planned\n\n", len(triggers))
	for i, t := range triggers {
		if !c.All && i == triggerPreview {
			ctx.printf("  ... %d more (use --all)\n", len(triggers)-triggerPreview)
			break
		}
		ctx.printf("  %-34s %s\n", t.Describe(), t.Content.Title)
	}
	if !r.IsRecurring() && len(triggers) > 1 {
		ctx.printf("\n  Overdue nudges stop at %s\n",
			triggers[len(triggers)-1].At.In(ctx.Location).Format(constants.DateTimeFormat))
	}
	return nil
}
