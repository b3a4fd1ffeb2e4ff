package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/nudge/internal/constants"
)

// isolate runs the test in an empty working directory with a fake home.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv(ConnectionEnv, "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(filepath.Join(home, "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if want := filepath.Join(home, ".config", "nudge", "nudge.db"); cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, want)
	}
	if !cfg.Notifications.Enabled {
		t.Error("Notifications.Enabled = false, want true")
	}
	if cfg.Notifications.RepeatInterval != time.Minute {
		t.Errorf("RepeatInterval = %s, want 1m", cfg.Notifications.RepeatInterval)
	}
	if cfg.Notifications.OverdueWindow != 24*time.Hour {
		t.Errorf("OverdueWindow = %s, want 24h", cfg.Notifications.OverdueWindow)
	}
	if cfg.Notifications.CustomHorizonDays != constants.DefaultCustomHorizonDays {
		t.Errorf("CustomHorizonDays = %d", cfg.Notifications.CustomHorizonDays)
	}
	if cfg.Daemon.ResyncInterval != constants.DefaultResyncInterval {
		t.Errorf("ResyncInterval = %s", cfg.Daemon.ResyncInterval)
	}
}

func TestLoad_Layering(t *testing.T) {
	home := isolate(t)

	configPath := filepath.Join(home, "config.yaml")
	writeFile(t, configPath, `
storage:
  path: /var/lib/nudge/reminders.json
notifications:
  repeat_interval: 5m
  overdue_window: 2h
log:
  debug: true
`)
	writeFile(t, filepath.Join(home, ".env"), "NUDGE_NOTIFICATIONS_CUSTOM_HORIZON_DAYS=14\n")
	t.Setenv("NUDGE_NOTIFICATIONS_OVERDUE_WINDOW", "3h")

	t.Cleanup(func() { os.Unsetenv("NUDGE_NOTIFICATIONS_CUSTOM_HORIZON_DAYS") })

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Path != "/var/lib/nudge/reminders.json" {
		t.Errorf("Storage.Path = %q, want file value", cfg.Storage.Path)
	}
	if cfg.Notifications.RepeatInterval != 5*time.Minute {
		t.Errorf("RepeatInterval = %s, want 5m from file", cfg.Notifications.RepeatInterval)
	}
	if cfg.Notifications.OverdueWindow != 3*time.Hour {
		t.Errorf("OverdueWindow = %s, want 3h from env", cfg.Notifications.OverdueWindow)
	}
	if cfg.Notifications.CustomHorizonDays != 14 {
		t.Errorf("CustomHorizonDays = %d, want 14 from .env", cfg.Notifications.CustomHorizonDays)
	}
	if !cfg.Log.Debug {
		t.Error("Log.Debug = false, want true from file")
	}

	opts := cfg.PlannerOptions()
	if opts.RepeatInterval != 5*time.Minute || opts.OverdueWindow != 3*time.Hour || opts.CustomHorizon != 14*24*time.Hour {
		t.Errorf("PlannerOptions() = %+v", opts)
	}
}

func TestLoad_ConnectionEnv(t *testing.T) {
	isolate(t)
	t.Setenv(ConnectionEnv, "postgres://nudge@localhost/nudge")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Path != "postgres://nudge@localhost/nudge" {
		t.Errorf("Storage.Path = %q, want connection string", cfg.Storage.Path)
	}
}

func TestLoad_Invalid(t *testing.T) {
	home := isolate(t)
	configPath := filepath.Join(home, "config.yaml")
	writeFile(t, configPath, "notifications:\n  repeat_interval: 10ms\n")

	_, err := Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "repeat_interval") {
		t.Errorf("Load() error = %v, want repeat_interval validation error", err)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "NUDGE_STORAGE_PATH", want: "storage.path"},
		{in: "NUDGE_NOTIFICATIONS_REPEAT_INTERVAL", want: "notifications.repeat_interval"},
		{in: "NUDGE_DAEMON_RESYNC_INTERVAL", want: "daemon.resync_interval"},
		{in: "NUDGE_DEBUG", want: "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := envKey(tt.in); got != tt.want {
				t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	if got := ExpandPath("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}
