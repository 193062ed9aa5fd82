package services

import (
	"sync"
	"time"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/ports"
)

// EventLog is the durable history of completed tasks. The in-memory list
// (newest first) is the read path; disk writes are coalesced behind a
// flush timer. Entries swept by the retention cleanup are archived before
// removal when an archive is configured.
type EventLog struct {
	mu     sync.Mutex
	events []domain.Event // newest first
	meta   ports.EventLogMeta
	today  domain.DayStats

	store         ports.EventStore
	archive       ports.EventArchive // may be nil
	flushInterval time.Duration
	flushTimer    *time.Timer
	dirty         bool
	closed        bool

	now func() time.Time
}

// NewEventLog creates an EventLog, loading any previously persisted
// events. A missing or corrupt log file yields an empty log.
func NewEventLog(store ports.EventStore, archive ports.EventArchive, flushInterval time.Duration) *EventLog {
	events, meta, err := store.Load()
	if err != nil {
		logging.Logger.Warn("Failed to load event log, starting empty", "error", err)
		events = nil
	}

	log := &EventLog{
		events:        events,
		meta:          meta,
		store:         store,
		archive:       archive,
		flushInterval: flushInterval,
		now:           time.Now,
	}
	log.today = domain.ComputeDayStats(events, log.now())

	logging.Logger.Debug("Event log initialized", "events", len(events))
	return log
}

// Save appends a completed-task event to the log. SessionStart events are
// internal bookkeeping and are ignored.
func (l *EventLog) Save(event domain.Event) {
	if event.Kind == domain.KindSessionStart {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Newest first
	l.events = append([]domain.Event{event}, l.events...)
	l.today = domain.ComputeDayStats(l.events, l.now())
	l.markDirtyLocked()
}

// TodayStats returns the cached aggregate for the current calendar day
func (l *EventLog) TodayStats() domain.DayStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Recompute when the day has rolled over since the last save
	l.today = domain.ComputeDayStats(l.events, l.now())
	return l.today
}

// EventsInRange returns events with from <= timestamp < to, newest first
func (l *EventLog) EventsInRange(from, to time.Time) []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []domain.Event
	for _, event := range l.events {
		if !event.Timestamp.Before(from) && event.Timestamp.Before(to) {
			result = append(result, event)
		}
	}
	return result
}

// EventsToday returns the current calendar day's events, newest first
func (l *EventLog) EventsToday() []domain.Event {
	now := l.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return l.EventsInRange(start, start.Add(24*time.Hour))
}

// EventsForProject returns events whose project label matches, newest first
func (l *EventLog) EventsForProject(project string) []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []domain.Event
	for _, event := range l.events {
		if event.Project() == project {
			result = append(result, event)
		}
	}
	return result
}

// Recent returns the n newest events
func (l *EventLog) Recent(n int) []domain.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	result := make([]domain.Event, n)
	copy(result, l.events[:n])
	return result
}

// Cleanup removes entries older than maxAge, archiving them first when an
// archive is configured. Runs at most once per calendar day; callers
// drive it at startup. Returns the number of entries removed.
func (l *EventLog) Cleanup(maxAge time.Duration) int {
	now := l.now()

	l.mu.Lock()
	if sameDay(l.meta.LastCleanup, now) {
		l.mu.Unlock()
		logging.Logger.Debug("Retention cleanup already ran today")
		return 0
	}

	cutoff := now.Add(-maxAge)
	var kept, swept []domain.Event
	for _, event := range l.events {
		if event.Timestamp.Before(cutoff) {
			swept = append(swept, event)
		} else {
			kept = append(kept, event)
		}
	}
	l.events = kept
	l.meta.LastCleanup = now
	l.today = domain.ComputeDayStats(l.events, now)
	l.markDirtyLocked()
	l.mu.Unlock()

	if len(swept) > 0 && l.archive != nil {
		if err := l.archive.Archive(swept); err != nil {
			// Swept entries are already gone from the live log; the
			// archive write failing loses only long-term history.
			logging.Logger.Error("Failed to archive swept events", "error", err)
		}
	}

	if len(swept) > 0 {
		logging.Logger.Info("Retention cleanup removed events", "count", len(swept))
	}
	return len(swept)
}

// Flush writes the log to disk immediately if dirty
func (l *EventLog) Flush() error {
	l.mu.Lock()
	if !l.dirty {
		l.mu.Unlock()
		return nil
	}
	l.dirty = false
	if l.flushTimer != nil {
		l.flushTimer.Stop()
		l.flushTimer = nil
	}
	snapshot := make([]domain.Event, len(l.events))
	copy(snapshot, l.events)
	meta := l.meta
	l.mu.Unlock()

	if err := l.store.Save(snapshot, meta); err != nil {
		logging.Logger.Error("Failed to flush event log", "error", err)
		l.mu.Lock()
		l.dirty = true
		l.mu.Unlock()
		return err
	}
	return nil
}

// Close performs a final flush and stops the flush timer
func (l *EventLog) Close() error {
	l.mu.Lock()
	l.closed = true
	if l.flushTimer != nil {
		l.flushTimer.Stop()
		l.flushTimer = nil
	}
	l.mu.Unlock()

	return l.Flush()
}

// markDirtyLocked schedules a coalesced flush. Caller must hold l.mu.
func (l *EventLog) markDirtyLocked() {
	l.dirty = true
	if l.closed || l.flushTimer != nil {
		return
	}
	l.flushTimer = time.AfterFunc(l.flushInterval, func() {
		l.mu.Lock()
		l.flushTimer = nil
		l.mu.Unlock()
		if err := l.Flush(); err != nil {
			logging.Logger.Warn("Deferred event log flush failed, will retry on next save", "error", err)
		}
	})
}

// sameDay reports whether two times fall on the same calendar day
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
