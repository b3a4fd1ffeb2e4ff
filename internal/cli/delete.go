package cli

import (
	apperrors "github.com/julianstephens/nudge/internal/errors"
)

type DeleteCmd struct {
	ID string `arg:"" help:"Reminder ID."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	id, err := ctx.resolveID(c.ID)
	if err != nil {
		return err
	}
	err = ctx.Service().Delete(ctx.baseContext(), id)
	if err != nil && !apperrors.IsWarning(err) {
		return err
	}
	ctx.printf("Deleted reminder %s\n", id)
	return err
}
