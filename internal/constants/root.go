package constants

import "time"

// RecurrenceType represents the type of recurrence for reminders
type RecurrenceType string

// Known reports whether t is one of the recurrence types below.
func (t RecurrenceType) Known() bool {
	switch t {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

const (
	AppName            = "nudge"
	DefaultKeyringUser = "database-connection"
	DefaultStorePath   = "~/.config/nudge/nudge.db"
	DefaultConfigFile  = "~/.config/nudge/config.yaml"
	EnvPrefix          = "NUDGE_"
	Version            = "v0.1.0"

	// StoreKey is the key the reminder collection is persisted under
	StoreKey = "@reminders"

	// Recurrence constants
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceCustom  RecurrenceType = "custom"

	// Scheduling defaults
	DefaultRepeatInterval    = time.Minute
	DefaultOverdueWindow     = 24 * time.Hour
	DefaultCustomHorizonDays = 30
	DefaultResyncInterval    = 30 * time.Second

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "nudge-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.nudge"
)
