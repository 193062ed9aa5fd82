package statefile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/ports"
)

// SchemaVersion is the current on-disk event log schema
const SchemaVersion = 1

// EventStore persists the event log and its metadata as one JSON document
type EventStore struct {
	path string
}

// Verify interface compliance at compile time
var _ ports.EventStore = (*EventStore)(nil)

// NewEventStore creates an EventStore backed by the given file path
func NewEventStore(path string) *EventStore {
	return &EventStore{path: path}
}

// eventLogFile is the on-disk shape: events newest first plus metadata
type eventLogFile struct {
	Events   []domain.Event     `json:"events"`
	Metadata ports.EventLogMeta `json:"metadata"`
}

// Load reads the event log from disk. Returns an empty log if the file is
// missing or corrupt.
func (s *EventStore) Load() ([]domain.Event, ports.EventLogMeta, error) {
	empty := ports.EventLogMeta{Version: SchemaVersion}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, empty, nil
		}
		logging.Logger.Warn("Failed to read event log file, starting empty",
			"path", s.path, "error", err)
		return nil, empty, nil
	}

	var file eventLogFile
	if err := json.Unmarshal(data, &file); err != nil {
		logging.Logger.Warn("Corrupt event log file, starting empty",
			"path", s.path, "error", err)
		return nil, empty, nil
	}

	if file.Metadata.Version == 0 {
		file.Metadata.Version = SchemaVersion
	}

	return file.Events, file.Metadata, nil
}

// Save writes the event log to disk, compact, newest first
func (s *EventStore) Save(events []domain.Event, meta ports.EventLogMeta) error {
	if meta.Version == 0 {
		meta.Version = SchemaVersion
	}
	if events == nil {
		events = []domain.Event{}
	}

	data, err := json.Marshal(eventLogFile{Events: events, Metadata: meta})
	if err != nil {
		return fmt.Errorf("failed to marshal event log: %w", err)
	}

	return writeLocked(s.path, data)
}
