package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/nudge/internal/models"
)

// ErrNotInitialized is returned when the store has not been created yet.
var ErrNotInitialized = errors.New("storage not initialized, run 'nudge init' first")

// Provider persists the whole reminder collection as one blob. Load and
// SaveAll always move the full collection.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error
	GetConfigPath() string

	// Load returns every well-formed stored reminder.
	Load(ctx context.Context) ([]models.Reminder, error)
	// SaveAll replaces the stored collection.
	SaveAll(ctx context.Context, reminders []models.Reminder) error
}

// StorageError reports a failed read or write of the reminder collection.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Path: path, Err: err}
}

// LoadError wraps a read failure for adapters outside this package.
func LoadError(path string, err error) error {
	return wrap("load", path, err)
}

// SaveError wraps a write failure for adapters outside this package.
func SaveError(path string, err error) error {
	return wrap("save", path, err)
}
