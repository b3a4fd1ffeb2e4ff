package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/nudge/internal/logger"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/planner"
	"github.com/julianstephens/nudge/internal/scheduler"
)

var ErrPermissionDenied = errors.New("notification permission denied")

// SyncError reports a reminder that was persisted while its notifications
// could not be brought up to date. The stored reminder stands.
type SyncError struct {
	ReminderID string
	Err        error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("reminder %s saved but notifications were not updated: %v", e.ReminderID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

func (e *SyncError) Warning() bool { return true }

// Manager keeps the scheduler's triggers in line with the stored reminders.
// Every change cancels a reminder's triggers and plans them again from scratch.
type Manager struct {
	scheduler scheduler.Scheduler
	planner   *planner.Planner
	now       func() time.Time

	permissionOnce sync.Once
}

type Option func(*Manager)

// WithClock overrides the clock used when planning.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(s scheduler.Scheduler, p *planner.Planner, opts ...Option) *Manager {
	m := &Manager{scheduler: s, planner: p, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnReminderCreatedOrUpdated replaces the reminder's triggers with a fresh plan.
func (m *Manager) OnReminderCreatedOrUpdated(ctx context.Context, r models.Reminder) error {
	if err := m.cancelTagged(ctx, r.ID); err != nil {
		return err
	}

	triggers := m.planner.PlanTriggers(r, m.now())
	for _, spec := range triggers {
		if _, err := m.scheduler.Schedule(ctx, spec); err != nil {
			return fmt.Errorf("failed to schedule notification for reminder %s: %w", r.ID, err)
		}
	}
	logger.Debug("Notifications planned", "reminder", r.ID, "triggers", len(triggers))
	return nil
}

// OnReminderDeleted cancels every trigger tagged with id.
func (m *Manager) OnReminderDeleted(ctx context.Context, id string) error {
	return m.cancelTagged(ctx, id)
}

// ReinitializeAll cancels everything the scheduler holds and plans every
// reminder again. A failing reminder does not stop the others.
func (m *Manager) ReinitializeAll(ctx context.Context, reminders []models.Reminder) error {
	if err := m.scheduler.CancelAll(ctx); err != nil {
		return fmt.Errorf("failed to cancel scheduled notifications: %w", err)
	}

	var errs []error
	for _, r := range reminders {
		if err := m.OnReminderCreatedOrUpdated(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Info("Notifications reinitialized", "reminders", len(reminders), "failed", len(errs))
	return errors.Join(errs...)
}

// RegisterForNotifications asks for permission to show notifications. A
// refusal is logged once and never blocks persistence.
func (m *Manager) RegisterForNotifications(ctx context.Context) error {
	pr, ok := m.scheduler.(scheduler.PermissionRequester)
	if !ok {
		return nil
	}
	if err := pr.RequestPermission(ctx); err != nil {
		m.permissionOnce.Do(func() {
			logger.Warn("Notifications are not available", "error", err)
		})
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return nil
}

// Scheduled returns the triggers currently registered for a reminder.
func (m *Manager) Scheduled(ctx context.Context, id string) ([]scheduler.Scheduled, error) {
	all, err := m.scheduler.ListScheduled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled notifications: %w", err)
	}
	return scheduler.FilterByTag(all, id), nil
}

func (m *Manager) cancelTagged(ctx context.Context, id string) error {
	tagged, err := m.Scheduled(ctx, id)
	if err != nil {
		return err
	}
	for _, s := range tagged {
		if err := m.scheduler.Cancel(ctx, s.Handle); err != nil {
			return fmt.Errorf("failed to cancel notification for reminder %s: %w", id, err)
		}
	}
	return nil
}
