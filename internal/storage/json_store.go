package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/nudge/internal/models"
)

// JSONStore keeps the reminder collection in a single JSON file.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	return s.SaveAll(context.Background(), nil)
}

func (s *JSONStore) Load(_ context.Context) ([]models.Reminder, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrap("load", s.path, ErrNotInitialized)
		}
		return nil, wrap("load", s.path, err)
	}

	reminders, err := DecodeReminders(data)
	if err != nil {
		return nil, wrap("load", s.path, err)
	}
	return reminders, nil
}

// SaveAll writes to a temporary file and renames it over the store so a
// failed write never leaves a partial collection behind.
func (s *JSONStore) SaveAll(_ context.Context, reminders []models.Reminder) error {
	previous, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return wrap("save", s.path, err)
	}

	data, err := EncodeReminders(reminders, previous)
	if err != nil {
		return wrap("save", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0600); err != nil {
		return wrap("save", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return wrap("save", s.path, err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
