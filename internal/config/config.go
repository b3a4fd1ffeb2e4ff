package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/planner"
)

// ConnectionEnv overrides storage.path with a PostgreSQL connection string.
const ConnectionEnv = "NUDGE_DB_CONNECTION"

type Config struct {
	Storage       StorageConfig       `koanf:"storage"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Daemon        DaemonConfig        `koanf:"daemon"`
	Log           LogConfig           `koanf:"log"`
}

type StorageConfig struct {
	Path string `koanf:"path"` // sqlite file, .json file or postgres:// URL
}

type NotificationsConfig struct {
	Enabled           bool          `koanf:"enabled"`
	RepeatInterval    time.Duration `koanf:"repeat_interval"`
	OverdueWindow     time.Duration `koanf:"overdue_window"`
	CustomHorizonDays int           `koanf:"custom_horizon_days"`
}

type DaemonConfig struct {
	ResyncInterval time.Duration `koanf:"resync_interval"`
}

type LogConfig struct {
	Debug bool `koanf:"debug"`
}

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"storage": map[string]interface{}{
			"path": constants.DefaultStorePath,
		},
		"notifications": map[string]interface{}{
			"enabled":             true,
			"repeat_interval":     constants.DefaultRepeatInterval.String(),
			"overdue_window":      constants.DefaultOverdueWindow.String(),
			"custom_horizon_days": constants.DefaultCustomHorizonDays,
		},
		"daemon": map[string]interface{}{
			"resync_interval": constants.DefaultResyncInterval.String(),
		},
		"log": map[string]interface{}{
			"debug": false,
		},
	}
}

// Load layers defaults, the YAML file at configPath (when it exists), a .env
// file in the working directory and NUDGE_* environment variables.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(DefaultConfig(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = ExpandPath(configPath)
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// existing environment variables win over .env entries
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := k.Load(env.Provider(constants.EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if connStr := os.Getenv(ConnectionEnv); connStr != "" {
		k.Set("storage.path", connStr)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps NUDGE_NOTIFICATIONS_REPEAT_INTERVAL to notifications.repeat_interval.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, constants.EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + rest
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}
	if c.Notifications.RepeatInterval < time.Second {
		return fmt.Errorf("notifications.repeat_interval must be at least 1s, got %s", c.Notifications.RepeatInterval)
	}
	if c.Notifications.OverdueWindow < 0 {
		return fmt.Errorf("notifications.overdue_window must not be negative, got %s", c.Notifications.OverdueWindow)
	}
	if c.Notifications.CustomHorizonDays < 1 {
		return fmt.Errorf("notifications.custom_horizon_days must be positive, got %d", c.Notifications.CustomHorizonDays)
	}
	if c.Daemon.ResyncInterval < time.Second {
		return fmt.Errorf("daemon.resync_interval must be at least 1s, got %s", c.Daemon.ResyncInterval)
	}
	return nil
}

// PlannerOptions converts the notification settings for the planner.
func (c *Config) PlannerOptions() planner.Options {
	return planner.Options{
		RepeatInterval: c.Notifications.RepeatInterval,
		OverdueWindow:  c.Notifications.OverdueWindow,
		CustomHorizon:  time.Duration(c.Notifications.CustomHorizonDays) * 24 * time.Hour,
	}
}

// ConfigDir is the directory holding the config file, used for logs.
func ConfigDir(configPath string) string {
	return filepath.Dir(ExpandPath(configPath))
}

func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
