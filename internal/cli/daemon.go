package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/nudge/internal/logger"
	"github.com/julianstephens/nudge/internal/notifier"
	"github.com/julianstephens/nudge/internal/scheduler"
	"github.com/julianstephens/nudge/internal/storage"
)

type DaemonCmd struct {
	DryRun bool `help:"Log notifications instead of sending them to the tray app."`
}

func (c *DaemonCmd) Run(ctx *Context) error {
	if !ctx.Config.Notifications.Enabled {
		ctx.printf("Notifications are disabled (notifications.enabled=false)\n")
		return nil
	}

	var d scheduler.Deliverer = notifier.New()
	if c.DryRun {
		d = notifier.LogDeliverer{Logger: logger.Logger}
	}

	runCtx, stop := signal.NotifyContext(ctx.baseContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	local := scheduler.NewLocal(d, ctx.Location)
	local.Start(runCtx)
	defer local.Stop()

	svc, _ := ctx.ServiceWith(local)
	if err := svc.Startup(runCtx); err != nil {
		var se *storage.StorageError
		if errors.As(err, &se) {
			return err
		}
		logger.Warn("Some reminders could not be scheduled", "error", err)
	}

	scheduled, _ := local.ListScheduled(runCtx)
	ctx.printf("nudge daemon running with %d notifications scheduled (Ctrl+C to stop)\n", len(scheduled))
	logger.Info("Daemon started", "scheduled", len(scheduled), "resync", ctx.Config.Daemon.ResyncInterval)

	err := svc.Watch(runCtx, ctx.Config.Daemon.ResyncInterval)
	logger.Info("Daemon stopped")
	return err
}
