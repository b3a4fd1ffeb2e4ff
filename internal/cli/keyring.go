package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/nudge/internal/keyring"
	"github.com/julianstephens/nudge/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Save a PostgreSQL connection string in the OS keyring."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the saved connection string."`
}

type KeyringSetCmd struct {
	ConnStr string `arg:"" name:"connection-string" help:"postgres:// URL, may include a password."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	if !postgres.IsConnString(c.ConnStr) {
		return fmt.Errorf("%w: expected a postgres:// or postgresql:// URL", postgres.ErrInvalidConnectionString)
	}
	if err := keyring.SetConnectionString(c.ConnStr); err != nil {
		return err
	}
	ctx.printf("Connection string saved to the OS keyring\n")
	return nil
}

type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			ctx.printf("No connection string saved\n")
			return nil
		}
		return err
	}
	ctx.printf("Connection string removed from the OS keyring\n")
	return nil
}
