package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Default tuning values used when settings.json and flags are silent.
const (
	DefaultQueueCapacity       = 5
	DefaultIdleReminderSeconds = 30
	DefaultSessionMaxAgeHours  = 24
	DefaultRetentionDays       = 30
	DefaultTrackerFlushSeconds = 2
	DefaultLogFlushSeconds     = 5
)

// Settings represents the structure of ~/.vigia/settings.json
type Settings struct {
	ArchiveDBPath       string `json:"archive_db_path,omitempty"`
	Debug               *bool  `json:"debug,omitempty"`
	EventLogPath        string `json:"event_log_path,omitempty"`
	IdleReminderSeconds *int   `json:"idle_reminder_seconds,omitempty"`
	LogFlushSeconds     *int   `json:"log_flush_seconds,omitempty"`
	MaxLogFiles         *int   `json:"max_log_files,omitempty"`
	QueueCapacity       *int   `json:"queue_capacity,omitempty"`
	RetentionDays       *int   `json:"retention_days,omitempty"`
	SessionMaxAgeHours  *int   `json:"session_max_age_hours,omitempty"`
	SessionStatePath    string `json:"session_state_path,omitempty"`
	SocketPath          string `json:"socket_path,omitempty"`
	SoundEnabled        *bool  `json:"sound_enabled,omitempty"`
	TrackerFlushSeconds *int   `json:"tracker_flush_seconds,omitempty"`
}

// LoadSettings reads settings from $VIGIA_HOME/settings.json.
// A missing file is not an error; defaults apply.
func LoadSettings() (*Settings, error) {
	path := GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	// Expand paths that start with ~
	if settings.SocketPath != "" {
		settings.SocketPath = ExpandPath(settings.SocketPath)
	}
	if settings.SessionStatePath != "" {
		settings.SessionStatePath = ExpandPath(settings.SessionStatePath)
	}
	if settings.EventLogPath != "" {
		settings.EventLogPath = ExpandPath(settings.EventLogPath)
	}
	if settings.ArchiveDBPath != "" {
		settings.ArchiveDBPath = ExpandPath(settings.ArchiveDBPath)
	}

	return &settings, nil
}

// SocketPathOrDefault resolves the IPC socket path
func (s *Settings) SocketPathOrDefault() string {
	if s != nil && s.SocketPath != "" {
		return s.SocketPath
	}
	return GetSocketPath()
}

// SessionStatePathOrDefault resolves the tracker state file path
func (s *Settings) SessionStatePathOrDefault() string {
	if s != nil && s.SessionStatePath != "" {
		return s.SessionStatePath
	}
	return GetSessionStatePath()
}

// EventLogPathOrDefault resolves the event log file path
func (s *Settings) EventLogPathOrDefault() string {
	if s != nil && s.EventLogPath != "" {
		return s.EventLogPath
	}
	return GetEventLogPath()
}

// ArchiveDBPathOrDefault resolves the sqlite history archive path
func (s *Settings) ArchiveDBPathOrDefault() string {
	if s != nil && s.ArchiveDBPath != "" {
		return s.ArchiveDBPath
	}
	return GetArchiveDBPath()
}

// QueueCapacityOrDefault resolves the notification queue capacity
func (s *Settings) QueueCapacityOrDefault() int {
	if s != nil && s.QueueCapacity != nil && *s.QueueCapacity > 0 {
		return *s.QueueCapacity
	}
	return DefaultQueueCapacity
}

// IdleReminderDelay resolves the idle reminder timer delay
func (s *Settings) IdleReminderDelay() time.Duration {
	if s != nil && s.IdleReminderSeconds != nil && *s.IdleReminderSeconds > 0 {
		return time.Duration(*s.IdleReminderSeconds) * time.Second
	}
	return DefaultIdleReminderSeconds * time.Second
}

// SessionMaxAge resolves the staleness threshold for tracked sessions
func (s *Settings) SessionMaxAge() time.Duration {
	if s != nil && s.SessionMaxAgeHours != nil && *s.SessionMaxAgeHours > 0 {
		return time.Duration(*s.SessionMaxAgeHours) * time.Hour
	}
	return DefaultSessionMaxAgeHours * time.Hour
}

// Retention resolves the event log retention window
func (s *Settings) Retention() time.Duration {
	if s != nil && s.RetentionDays != nil && *s.RetentionDays > 0 {
		return time.Duration(*s.RetentionDays) * 24 * time.Hour
	}
	return DefaultRetentionDays * 24 * time.Hour
}

// TrackerFlushInterval resolves the tracker's coalesced flush window
func (s *Settings) TrackerFlushInterval() time.Duration {
	if s != nil && s.TrackerFlushSeconds != nil && *s.TrackerFlushSeconds > 0 {
		return time.Duration(*s.TrackerFlushSeconds) * time.Second
	}
	return DefaultTrackerFlushSeconds * time.Second
}

// LogFlushInterval resolves the event log's coalesced flush window
func (s *Settings) LogFlushInterval() time.Duration {
	if s != nil && s.LogFlushSeconds != nil && *s.LogFlushSeconds > 0 {
		return time.Duration(*s.LogFlushSeconds) * time.Second
	}
	return DefaultLogFlushSeconds * time.Second
}

// SoundEnabledOrDefault resolves whether notification sounds play
func (s *Settings) SoundEnabledOrDefault() bool {
	if s != nil && s.SoundEnabled != nil {
		return *s.SoundEnabled
	}
	return true
}
