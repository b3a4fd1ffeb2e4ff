package cli

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/utils"
)

type ListCmd struct{}

func (c *ListCmd) Run(ctx *Context) error {
	all := ctx.Service().List(ctx.baseContext())
	if len(all) == 0 {
		ctx.printf("No reminders found\n")
		return nil
	}

	now := ctx.now()
	rows := make([][]string, 0, len(all))
	for _, r := range all {
		rows = append(rows, []string{
			shortID(r.ID),
			r.Title,
			r.DueDate.In(ctx.Location).Format(constants.DateTimeFormat),
			r.FormatRecurrence(),
			status(r, now),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "TITLE", "DUE", "REPEATS", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	ctx.printf("%s\n", t.Render())
	return nil
}

// status describes a reminder at now: single-shot reminders are done, overdue
// or pending; recurring ones report today's occurrence.
func status(r models.Reminder, now time.Time) string {
	if !r.IsRecurring() {
		switch {
		case r.SingleShotState().Completed:
			return doneStyle.Render("done")
		case r.DueDate.Before(now):
			return overdueStyle.Render("overdue")
		default:
			return pendingStyle.Render("pending")
		}
	}
	if !utils.IsDueOnDate(r, now) {
		return mutedStyle.Render("-")
	}
	if utils.IsCompletedOnDate(r, now) {
		return doneStyle.Render("done today")
	}
	return pendingStyle.Render("due today")
}
