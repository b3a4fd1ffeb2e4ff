package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/nudge/internal/keyring"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/notifier"
	"github.com/julianstephens/nudge/internal/scheduler"
)

type DoctorCmd struct{}

// trayCheck is swapped out in tests.
var trayCheck = func(ctx *Context) error {
	return notifier.New().Available(ctx.baseContext())
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")

	hasError := false

	// Check 1: store reachable
	all, err := ctx.Store.Load(ctx.baseContext())
	if err != nil {
		ctx.printf("❌ Storage reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Storage reachable: OK (%d reminders at %s)\n", len(all), ctx.Store.GetConfigPath())
	}

	// Check 2: every reminder plans valid triggers
	if err == nil {
		if err := checkPlans(ctx, all); err != nil {
			ctx.printf("❌ Notification plans: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Notification plans: OK\n")
		}
	} else {
		ctx.printf("⊘ Notification plans: SKIPPED (storage not reachable)\n")
	}

	// Check 3: tray app (warning only)
	if err := trayCheck(ctx); err != nil {
		ctx.printf("⚠ Tray app: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ Tray app: OK\n")
	}

	// Check 4: keyring (warning only)
	if _, err := keyring.GetConnectionString(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		ctx.printf("⚠ OS keyring: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ OS keyring: OK\n")
	}

	// Check 5: clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		ctx.printf("❌ Clock/timezone: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Clock/timezone: OK\n")
	}

	ctx.printf("\n")
	if hasError {
		ctx.printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.printf("All diagnostics passed!\n")
	return nil
}

func checkPlans(ctx *Context, all []models.Reminder) error {
	now := ctx.now()
	for _, r := range all {
		for _, spec := range ctx.Planner.PlanTriggers(r, now) {
			if err := scheduler.Validate(spec); err != nil {
				return fmt.Errorf("reminder %s (%s): %w", r.ID, r.Title, err)
			}
		}
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.now()

	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if ctx.Location == time.UTC {
		ctx.printf("   Note: timezone is UTC, reminders fire on UTC wall-clock times\n")
	}

	return nil
}
