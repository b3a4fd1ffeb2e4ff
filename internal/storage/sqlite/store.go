package sqlite

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/logger"
	"github.com/julianstephens/nudge/internal/migration"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/storage"
	"github.com/julianstephens/nudge/migrations"
)

// Store keeps the reminder collection as one row of a SQLite key-value table.
type Store struct {
	path string
	db   *sqlx.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) ([]models.Reminder, error) {
	if err := s.connect(ctx); err != nil {
		return nil, storage.LoadError(s.path, err)
	}

	data, ok, err := storage.KV{DB: s.db}.Get(ctx, constants.StoreKey)
	if err != nil {
		return nil, storage.LoadError(s.path, err)
	}
	if !ok {
		return []models.Reminder{}, nil
	}

	reminders, err := storage.DecodeReminders(data)
	if err != nil {
		return nil, storage.LoadError(s.path, err)
	}
	return reminders, nil
}

func (s *Store) SaveAll(ctx context.Context, reminders []models.Reminder) error {
	if err := s.connect(ctx); err != nil {
		return storage.SaveError(s.path, err)
	}

	kv := storage.KV{DB: s.db}
	previous, _, err := kv.Get(ctx, constants.StoreKey)
	if err != nil {
		return storage.SaveError(s.path, err)
	}
	data, err := storage.EncodeReminders(reminders, previous)
	if err != nil {
		return storage.SaveError(s.path, err)
	}
	if err := kv.Put(ctx, constants.StoreKey, data); err != nil {
		return storage.SaveError(s.path, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// connect opens an existing database and checks its schema version.
func (s *Store) connect(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}

	if err := s.open(); err != nil {
		return err
	}
	return s.validateSchemaVersion(ctx)
}

func (s *Store) open() error {
	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets the daemon read while a CLI invocation writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s.db = db
	return nil
}

func (s *Store) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion(ctx context.Context) error {
	runner, err := s.migrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}
