package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/nudge/internal/config"
	"github.com/julianstephens/nudge/internal/keyring"
	"github.com/julianstephens/nudge/internal/notifications"
	"github.com/julianstephens/nudge/internal/planner"
	"github.com/julianstephens/nudge/internal/reminders"
	"github.com/julianstephens/nudge/internal/scheduler"
	"github.com/julianstephens/nudge/internal/storage"
	"github.com/julianstephens/nudge/internal/storage/postgres"
	"github.com/julianstephens/nudge/internal/storage/sqlite"
	"github.com/julianstephens/nudge/internal/utils"
)

type Context struct {
	Config   *config.Config
	Store    storage.Provider
	Planner  *planner.Planner
	Location *time.Location
	Out      io.Writer
	Now      func() time.Time
	// Base is the parent context of store and scheduler calls.
	Base context.Context

	svc *reminders.Service
}

func NewContext(cfg *config.Config, store storage.Provider) *Context {
	return &Context{
		Config:   cfg,
		Store:    store,
		Planner:  planner.New(cfg.PlannerOptions()),
		Location: time.Local,
		Out:      os.Stdout,
		Now:      time.Now,
		Base:     context.Background(),
	}
}

// Service returns the reminder service for one-shot commands. Triggers are
// planned into an in-process registry; a running daemon picks the change up
// on its next resync.
func (c *Context) Service() *reminders.Service {
	if c.svc == nil {
		c.svc, _ = c.ServiceWith(scheduler.NewMemory())
	}
	return c.svc
}

// ServiceWith builds a reminder service whose triggers go to s.
func (c *Context) ServiceWith(s scheduler.Scheduler) (*reminders.Service, *notifications.Manager) {
	m := notifications.NewManager(s, c.Planner, notifications.WithClock(c.now))
	return reminders.NewService(c.Store, m, reminders.WithClock(c.now)), m
}

func (c *Context) baseContext() context.Context {
	if c.Base == nil {
		return context.Background()
	}
	return c.Base
}

func (c *Context) now() time.Time {
	return c.Now().In(c.Location)
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// parseDay returns the start of the given YYYY-MM-DD day, or today when empty.
func (c *Context) parseDay(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return utils.StartOfDay(c.now()), nil
	}
	date, err := utils.ParseDateInLocation(value, c.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return date, nil
}

// OpenStore picks the storage backend. The --store flag wins, then
// NUDGE_DB_CONNECTION, then a connection string saved in the OS keyring, then
// storage.path from the config file.
func OpenStore(flagValue string, cfg *config.Config) (storage.Provider, error) {
	explicit := flagValue
	if explicit == "" {
		explicit = os.Getenv(config.ConnectionEnv)
	}
	if postgres.IsConnString(explicit) {
		if err := postgres.ValidateConnString(explicit); err != nil {
			return nil, err
		}
	}
	return NewStore(keyring.ResolveStore(explicit, cfg.Storage.Path)), nil
}

// NewStore maps a location to a backend: postgres:// URLs use PostgreSQL,
// .json files the JSON store and anything else SQLite.
func NewStore(location string) storage.Provider {
	switch {
	case postgres.IsConnString(location):
		return postgres.New(location)
	case strings.EqualFold(filepath.Ext(location), ".json"):
		return storage.NewJSONStore(config.ExpandPath(location))
	default:
		return sqlite.NewStore(config.ExpandPath(location))
	}
}

// resolveID expands a unique id prefix, as printed by list, to the full id.
func (c *Context) resolveID(prefix string) (string, error) {
	var matches []string
	for _, r := range c.Service().List(c.baseContext()) {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			matches = append(matches, r.ID)
		}
	}
	switch len(matches) {
	case 0:
		return prefix, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous (%d reminders match)", prefix, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
