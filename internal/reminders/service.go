// Package reminders owns every change to the stored reminder collection and
// keeps notifications in step with it.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/nudge/internal/logger"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/notifications"
	"github.com/julianstephens/nudge/internal/storage"
	"github.com/julianstephens/nudge/internal/utils"
)

var ErrNotFound = errors.New("reminder not found")

// Draft holds the user-supplied fields of a new reminder.
type Draft struct {
	Title      string
	DueDate    time.Time
	Recurrence *models.Recurrence
}

// Occurrence is a reminder due on a given day with that day's completion.
type Occurrence struct {
	Reminder  models.Reminder
	Completed bool
}

// Service applies mutations as load all, compute, save all, cancel, plan.
// Mutations made through one Service are serialized.
type Service struct {
	store   storage.Provider
	manager *notifications.Manager
	now     func() time.Time
	newID   func() string

	mu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(store storage.Provider, manager *notifications.Manager, opts ...Option) *Service {
	s := &Service{
		store:   store,
		manager: manager,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, d Draft) (models.Reminder, error) {
	r := models.Reminder{
		ID:         s.newID(),
		Title:      strings.TrimSpace(d.Title),
		DueDate:    d.DueDate,
		CreatedAt:  s.now(),
		Recurrence: d.Recurrence,
	}
	r.NormalizeCompletion()
	if err := r.Validate(); err != nil {
		return models.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return models.Reminder{}, err
	}
	all = append(all, r)
	return s.commit(ctx, all, r)
}

// Update replaces the stored reminder with the same id. CreatedAt is kept and
// a change between single-shot and recurring resets completion.
func (s *Service) Update(ctx context.Context, r models.Reminder) (models.Reminder, error) {
	r = r.Clone()
	r.Title = strings.TrimSpace(r.Title)

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return models.Reminder{}, err
	}
	i := indexOf(all, r.ID)
	if i < 0 {
		return models.Reminder{}, fmt.Errorf("%w: %s", ErrNotFound, r.ID)
	}

	r.CreatedAt = all[i].CreatedAt
	r.NormalizeCompletion()
	if err := r.Validate(); err != nil {
		return models.Reminder{}, err
	}
	all[i] = r
	return s.commit(ctx, all, r)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(all, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	all = slices.Delete(all, i, i+1)

	if err := s.store.SaveAll(ctx, all); err != nil {
		return err
	}
	if err := s.manager.OnReminderDeleted(ctx, id); err != nil {
		logger.Error("Failed to cancel notifications", "reminder", id, "error", err)
		return &notifications.SyncError{ReminderID: id, Err: err}
	}
	logger.Info("Reminder deleted", "reminder", id)
	return nil
}

// ToggleCompletion flips the occurrence on date. An unknown id changes nothing
// and reports false.
func (s *Service) ToggleCompletion(ctx context.Context, id string, date time.Time) (models.Reminder, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return models.Reminder{}, false, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return models.Reminder{}, false, nil
	}

	all[i] = utils.ToggleCompletion(all[i], date)
	r, err := s.commit(ctx, all, all[i])
	if err != nil && !isSyncError(err) {
		return models.Reminder{}, false, err
	}
	return r, true, err
}

// Complete marks a single-shot reminder done, or today's occurrence of a
// recurring one. Completing twice is a no-op.
func (s *Service) Complete(ctx context.Context, id string) (models.Reminder, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return models.Reminder{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return models.Reminder{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if utils.IsCompletedOnDate(all[i], now) {
		return all[i], nil
	}

	all[i] = utils.ToggleCompletion(all[i], now)
	return s.commit(ctx, all, all[i])
}

// List returns every reminder ordered by due date. Storage failures are
// logged and yield an empty list.
func (s *Service) List(ctx context.Context) []models.Reminder {
	all, err := s.store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load reminders", "error", err)
		return []models.Reminder{}
	}
	sortByDue(all)
	return all
}

func (s *Service) Get(ctx context.Context, id string) (models.Reminder, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return models.Reminder{}, err
	}
	i := indexOf(all, id)
	if i < 0 {
		return models.Reminder{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return all[i], nil
}

// DueOn returns the reminders due on date's calendar day, ordered by time of day.
func (s *Service) DueOn(ctx context.Context, date time.Time) ([]Occurrence, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var out []Occurrence
	for _, r := range all {
		if utils.IsDueOnDate(r, date) {
			out = append(out, Occurrence{Reminder: r, Completed: utils.IsCompletedOnDate(r, date)})
		}
	}
	slices.SortStableFunc(out, func(a, b Occurrence) int {
		return minuteOfDay(a.Reminder.DueDate.In(date.Location())) - minuteOfDay(b.Reminder.DueDate.In(date.Location()))
	})
	return out, nil
}

// Startup asks for notification permission and re-registers every trigger.
// A refused permission is not fatal.
func (s *Service) Startup(ctx context.Context) error {
	if err := s.manager.RegisterForNotifications(ctx); err != nil {
		logger.Debug("Continuing without notification permission", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	return s.manager.ReinitializeAll(ctx, all)
}

func (s *Service) commit(ctx context.Context, all []models.Reminder, r models.Reminder) (models.Reminder, error) {
	if err := s.store.SaveAll(ctx, all); err != nil {
		return models.Reminder{}, err
	}
	if err := s.manager.OnReminderCreatedOrUpdated(ctx, r); err != nil {
		logger.Error("Failed to update notifications", "reminder", r.ID, "error", err)
		return r, &notifications.SyncError{ReminderID: r.ID, Err: err}
	}
	logger.Debug("Reminder saved", "reminder", r.ID)
	return r, nil
}

func isSyncError(err error) bool {
	var se *notifications.SyncError
	return errors.As(err, &se)
}

func indexOf(all []models.Reminder, id string) int {
	return slices.IndexFunc(all, func(r models.Reminder) bool { return r.ID == id })
}

func sortByDue(all []models.Reminder) {
	slices.SortStableFunc(all, func(a, b models.Reminder) int {
		return a.DueDate.Compare(b.DueDate)
	})
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
