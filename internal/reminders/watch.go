package reminders

import (
	"context"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/julianstephens/nudge/internal/logger"
	"github.com/julianstephens/nudge/internal/models"
)

// fingerprintRecord flattens a reminder into hashable fields.
type fingerprintRecord struct {
	ID         string
	Title      string
	Due        string
	Recurrence string
	CustomDays int
	Completed  bool
	Dates      []string
}

// Fingerprint hashes the stored collection so changes made by other
// processes can be detected.
func Fingerprint(all []models.Reminder) (uint64, error) {
	records := make([]fingerprintRecord, 0, len(all))
	for _, r := range all {
		rec := fingerprintRecord{
			ID:        r.ID,
			Title:     r.Title,
			Due:       r.DueDate.UTC().Format(time.RFC3339Nano),
			Completed: r.SingleShotState().Completed,
		}
		if r.Recurrence != nil {
			rec.Recurrence = string(r.Recurrence.Type)
			rec.CustomDays = r.Recurrence.CustomDays
		}
		for _, d := range r.RecurringState().CompletedDates {
			rec.Dates = append(rec.Dates, d.UTC().Format(time.RFC3339Nano))
		}
		records = append(records, rec)
	}
	return hashstructure.Hash(records, hashstructure.FormatV2, nil)
}

// Watch re-registers every trigger whenever the stored collection changes or
// the local day rolls over, until ctx is done.
func (s *Service) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last, _ := s.fingerprint(ctx)
	day := s.now().YearDay()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			changed, err := s.resync(ctx, last, day)
			if err != nil {
				logger.Warn("Resync failed", "error", err)
				continue
			}
			last = changed
			day = s.now().YearDay()
		}
	}
}

// resync replans when the fingerprint differs from last or the day changed,
// and returns the fingerprint it saw.
func (s *Service) resync(ctx context.Context, last uint64, day int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return last, err
	}
	current, err := Fingerprint(all)
	if err != nil {
		return last, err
	}
	if current == last && s.now().YearDay() == day {
		return current, nil
	}

	logger.Info("Reminders changed, rescheduling notifications", "reminders", len(all))
	if err := s.manager.ReinitializeAll(ctx, all); err != nil {
		return current, err
	}
	return current, nil
}

func (s *Service) fingerprint(ctx context.Context) (uint64, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return Fingerprint(all)
}
