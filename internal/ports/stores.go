package ports

import (
	"time"

	"github.com/renato0307/vigia/internal/domain"
)

// EventLogMeta is the store metadata persisted alongside the event log
type EventLogMeta struct {
	LastCleanup time.Time `json:"last_cleanup"`
	Version     int       `json:"version"`
}

// SessionStore persists the tracker's session map (id -> start time)
type SessionStore interface {
	// Load reads the persisted map. Missing or corrupt files yield an
	// empty map, not an error.
	Load() (map[string]time.Time, error)

	// Save writes the map to disk
	Save(sessions map[string]time.Time) error
}

// EventStore persists the event log with its metadata, newest first
type EventStore interface {
	// Load reads the persisted log. Missing or corrupt files yield an
	// empty log, not an error.
	Load() ([]domain.Event, EventLogMeta, error)

	// Save writes the log and metadata to disk
	Save(events []domain.Event, meta EventLogMeta) error
}
