package statefile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/ports"
)

// SessionStore persists the tracker's session map as a JSON object of
// session id -> RFC-3339 start time
type SessionStore struct {
	path string
}

// Verify interface compliance at compile time
var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore backed by the given file path
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load reads the session map from disk. Returns an empty map if the file
// is missing or corrupt.
func (s *SessionStore) Load() (map[string]time.Time, error) {
	sessions := make(map[string]time.Time)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return sessions, nil
		}
		logging.Logger.Warn("Failed to read session state file, starting empty",
			"path", s.path, "error", err)
		return sessions, nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		logging.Logger.Warn("Corrupt session state file, starting empty",
			"path", s.path, "error", err)
		return sessions, nil
	}

	for id, stamp := range raw {
		start, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			logging.Logger.Warn("Skipping session with bad start time",
				"session_id", id, "value", stamp)
			continue
		}
		sessions[id] = start
	}

	return sessions, nil
}

// Save writes the session map to disk. Keys are sorted by the JSON
// encoder for diffability; output is compact.
func (s *SessionStore) Save(sessions map[string]time.Time) error {
	raw := make(map[string]string, len(sessions))
	for id, start := range sessions {
		raw[id] = start.UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	return writeLocked(s.path, data)
}
