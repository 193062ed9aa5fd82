package services

import (
	"sync"
	"time"

	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/ports"
)

// Tracker owns the in-flight session and subagent state. All operations
// are safe under concurrent calls. Mutations mark the state dirty and
// schedule a coalesced flush; Flush forces an immediate write and must be
// called on shutdown.
type Tracker struct {
	mu        sync.Mutex
	sessions  map[string]time.Time
	subagents map[string]struct{}

	store         ports.SessionStore
	flushInterval time.Duration
	flushTimer    *time.Timer
	dirty         bool
	closed        bool
}

// NewTracker creates a Tracker, loading any previously persisted session
// map. A missing or corrupt state file yields empty initial state.
func NewTracker(store ports.SessionStore, flushInterval time.Duration) *Tracker {
	sessions, err := store.Load()
	if err != nil {
		logging.Logger.Warn("Failed to load session state, starting empty", "error", err)
		sessions = make(map[string]time.Time)
	}

	logging.Logger.Debug("Tracker initialized", "tracked_sessions", len(sessions))
	return &Tracker{
		sessions:      sessions,
		subagents:     make(map[string]struct{}),
		store:         store,
		flushInterval: flushInterval,
	}
}

// RecordStart inserts a session start time only if the session is not
// already tracked. Returns whether it was newly inserted.
func (t *Tracker) RecordStart(sessionID string, at time.Time) bool {
	if sessionID == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.sessions[sessionID]; exists {
		return false
	}
	t.sessions[sessionID] = at
	t.markDirtyLocked()
	return true
}

// Duration returns how long the session has been running, or false if the
// session is not tracked
func (t *Tracker) Duration(sessionID string, at time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start, exists := t.sessions[sessionID]
	if !exists {
		return 0, false
	}
	return at.Sub(start), true
}

// ClearSession removes a session if present; no-op otherwise
func (t *Tracker) ClearSession(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.sessions[sessionID]; !exists {
		return
	}
	delete(t.sessions, sessionID)
	t.markDirtyLocked()
}

// IsTracking reports whether the session id is tracked as a main session
func (t *Tracker) IsTracking(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, exists := t.sessions[sessionID]
	return exists
}

// RecordSubagentStart adds a session id to the active subagent set.
// Returns whether the set changed.
func (t *Tracker) RecordSubagentStart(sessionID string) bool {
	if sessionID == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.subagents[sessionID]; exists {
		return false
	}
	t.subagents[sessionID] = struct{}{}
	t.markDirtyLocked()
	return true
}

// RecordSubagentStop removes a session id from the active subagent set.
// Returns whether the set changed.
func (t *Tracker) RecordSubagentStop(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.subagents[sessionID]; !exists {
		return false
	}
	delete(t.subagents, sessionID)
	t.markDirtyLocked()
	return true
}

// SessionCount returns the number of tracked main sessions
func (t *Tracker) SessionCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// ActiveSubagentCount returns the number of active subagents
func (t *Tracker) ActiveSubagentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subagents)
}

// TotalActiveAgentCount returns session count plus subagent count
func (t *Tracker) TotalActiveAgentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions) + len(t.subagents)
}

// CleanupStale removes sessions whose start time is older than maxAge.
// Returns the number removed.
func (t *Tracker) CleanupStale(maxAge time.Duration, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, start := range t.sessions {
		if now.Sub(start) > maxAge {
			delete(t.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		t.markDirtyLocked()
		logging.Logger.Info("Removed stale sessions", "count", removed)
	}
	return removed
}

// Flush writes the session map to disk immediately if dirty
func (t *Tracker) Flush() error {
	t.mu.Lock()
	if !t.dirty {
		t.mu.Unlock()
		return nil
	}
	t.dirty = false
	if t.flushTimer != nil {
		t.flushTimer.Stop()
		t.flushTimer = nil
	}
	// Snapshot under the lock; serialize and write outside it so a slow
	// disk never blocks new mutations.
	snapshot := make(map[string]time.Time, len(t.sessions))
	for id, start := range t.sessions {
		snapshot[id] = start
	}
	t.mu.Unlock()

	if err := t.store.Save(snapshot); err != nil {
		logging.Logger.Error("Failed to flush session state", "error", err)
		// Leave the next mutation to reschedule a flush; in-memory state
		// remains the source of truth.
		t.mu.Lock()
		t.dirty = true
		t.mu.Unlock()
		return err
	}
	return nil
}

// Close performs a final flush and stops the flush timer
func (t *Tracker) Close() error {
	t.mu.Lock()
	t.closed = true
	if t.flushTimer != nil {
		t.flushTimer.Stop()
		t.flushTimer = nil
	}
	t.mu.Unlock()

	return t.Flush()
}

// markDirtyLocked schedules a coalesced flush. Caller must hold t.mu.
func (t *Tracker) markDirtyLocked() {
	t.dirty = true
	if t.closed || t.flushTimer != nil {
		return
	}
	t.flushTimer = time.AfterFunc(t.flushInterval, func() {
		t.mu.Lock()
		t.flushTimer = nil
		t.mu.Unlock()
		if err := t.Flush(); err != nil {
			logging.Logger.Warn("Deferred session flush failed, will retry on next mutation", "error", err)
		}
	})
}
