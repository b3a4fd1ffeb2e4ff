package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "nudge.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LoadBeforeInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	defer s.Close()

	_, err := s.Load(context.Background())
	if !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	var se *storage.StorageError
	if !errors.As(err, &se) {
		t.Errorf("Load() error = %T, want *StorageError", err)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() on empty store error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load() on empty store returned %d reminders", len(got))
	}

	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	reminders := []models.Reminder{
		{ID: "a", Title: "Dentist", DueDate: due, CreatedAt: due, Completion: models.SingleShot{Completed: true, CompletedAt: &due}},
		{
			ID: "b", Title: "Stretch", DueDate: due, CreatedAt: due,
			Recurrence: &models.Recurrence{Type: constants.RecurrenceCustom, CustomDays: 2},
			Completion: models.Recurring{},
		},
	}
	if err := s.SaveAll(ctx, reminders); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	// replacing the collection overwrites the single row
	if err := s.SaveAll(ctx, reminders[1:]); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("Load() = %+v, want only b", got)
	}
	if got[0].Recurrence == nil || got[0].Recurrence.CustomDays != 2 {
		t.Errorf("recurrence = %+v, want custom every 2 days", got[0].Recurrence)
	}

	var rows int
	if err := s.db.Get(&rows, "SELECT COUNT(*) FROM kv_store"); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("kv_store rows = %d, want 1", rows)
	}
}

func TestStore_ReopenValidatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nudge.db")

	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	if err := first.SaveAll(ctx, []models.Reminder{{ID: "a", Title: "Dentist", DueDate: due, CreatedAt: due}}); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	first.Close()

	second := NewStore(path)
	defer second.Close()
	got, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Load() after reopen returned %d reminders, want 1", len(got))
	}
}
