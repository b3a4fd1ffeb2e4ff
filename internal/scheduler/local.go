package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/nudge/internal/logger"
	"github.com/julianstephens/nudge/internal/models"
)

// Local fires registered triggers from within the running process. Absolute
// triggers go through a timer heap; calendar and repeating triggers are cron
// entries in the configured location.
type Local struct {
	registry  *Memory
	cron      *cron.Cron
	engine    *engine
	deliverer Deliverer

	mu      sync.Mutex
	entries map[Handle]cron.EntryID

	ctx    context.Context
	cancel context.CancelFunc
}

func NewLocal(d Deliverer, loc *time.Location) *Local {
	if loc == nil {
		loc = time.Local
	}
	l := &Local{
		registry:  NewMemory(),
		cron:      cron.New(cron.WithLocation(loc)),
		deliverer: d,
		entries:   make(map[Handle]cron.EntryID),
		ctx:       context.Background(),
	}
	l.engine = newEngine(l.fire)
	return l
}

// Start begins firing triggers until ctx is cancelled or Stop is called.
func (l *Local) Start(ctx context.Context) {
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.engine.Start()
	l.cron.Start()
}

// Stop cancels in-flight deliveries and waits for them to return.
func (l *Local) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	<-l.cron.Stop().Done()
	l.engine.Stop()
}

func (l *Local) Schedule(ctx context.Context, spec models.TriggerSpec) (Handle, error) {
	h, err := l.registry.Schedule(ctx, spec)
	if err != nil {
		return "", err
	}

	switch spec.Kind {
	case models.TriggerAt:
		err = l.engine.Schedule(firing{Handle: h, At: spec.At})
	case models.TriggerRepeat:
		id := l.cron.Schedule(cron.Every(spec.Every), l.job(h))
		l.track(h, id)
	default:
		var id cron.EntryID
		id, err = l.cron.AddJob(cronSpec(spec), l.job(h))
		if err == nil {
			l.track(h, id)
		}
	}
	if err != nil {
		l.registry.remove(h)
		return "", fmt.Errorf("failed to schedule %s trigger: %w", spec.Kind, err)
	}
	return h, nil
}

func (l *Local) Cancel(_ context.Context, h Handle) error {
	if !l.registry.remove(h) {
		return nil
	}
	l.mu.Lock()
	id, ok := l.entries[h]
	delete(l.entries, h)
	l.mu.Unlock()

	if ok {
		l.cron.Remove(id)
	} else {
		l.engine.Remove(h)
	}
	return nil
}

func (l *Local) ListScheduled(ctx context.Context) ([]Scheduled, error) {
	return l.registry.ListScheduled(ctx)
}

func (l *Local) CancelAll(ctx context.Context) error {
	if err := l.registry.CancelAll(ctx); err != nil {
		return err
	}
	l.engine.Clear()

	l.mu.Lock()
	ids := l.entries
	l.entries = make(map[Handle]cron.EntryID)
	l.mu.Unlock()
	for _, id := range ids {
		l.cron.Remove(id)
	}
	return nil
}

// RequestPermission asks the deliverer whether notifications can be shown.
func (l *Local) RequestPermission(ctx context.Context) error {
	if checker, ok := l.deliverer.(interface {
		Available(ctx context.Context) error
	}); ok {
		return checker.Available(ctx)
	}
	return nil
}

func (l *Local) track(h Handle, id cron.EntryID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[h] = id
}

func (l *Local) job(h Handle) cron.Job {
	return cron.FuncJob(func() { l.fire(h) })
}

func (l *Local) fire(h Handle) {
	s, ok := l.registry.lookup(h)
	if !ok {
		return
	}
	if s.Trigger.Kind == models.TriggerAt {
		l.registry.remove(h)
	}
	if l.deliverer == nil {
		return
	}
	if err := l.deliverer.Deliver(l.ctx, s.Trigger.Content); err != nil {
		logger.Warn("Failed to deliver notification", "tag", s.Tag, "title", s.Trigger.Content.Title, "error", err)
		return
	}
	logger.Debug("Notification delivered", "tag", s.Tag, "kind", s.Trigger.Kind)
}

// cronSpec renders a calendar trigger as a five-field cron expression.
func cronSpec(spec models.TriggerSpec) string {
	tod := spec.TimeOfDay
	switch spec.Kind {
	case models.TriggerWeekly:
		return fmt.Sprintf("%d %d * * %d", tod.Minute, tod.Hour, int(spec.Weekday))
	case models.TriggerMonthly:
		return fmt.Sprintf("%d %d %d * *", tod.Minute, tod.Hour, spec.Day)
	default:
		return fmt.Sprintf("%d %d * * *", tod.Minute, tod.Hour)
	}
}
