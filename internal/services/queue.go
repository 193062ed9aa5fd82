package services

import (
	"sort"
	"sync"
	"time"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/ports"
)

// Queue owns the set of currently displayed notifications: a bounded
// collection with oldest-first eviction, plus the single idle-reminder
// timer. It issues present/dismiss intents to the external presenter and
// renders nothing itself.
type Queue struct {
	mu       sync.Mutex
	entries  []domain.NotificationEntry // newest first
	capacity int

	presenter ports.Presenter

	idleDelay      time.Duration
	idleTimer      *time.Timer
	idleGeneration int
	onIdleReminder func() // set by the correlator

	now func() time.Time
}

// NewQueue creates a Queue with the given capacity and idle reminder delay
func NewQueue(capacity int, idleDelay time.Duration, presenter ports.Presenter) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		capacity:  capacity,
		idleDelay: idleDelay,
		presenter: presenter,
		now:       time.Now,
	}
}

// SetIdleReminderFunc registers the callback invoked when the idle
// reminder timer expires. Must be set before events flow.
func (q *Queue) SetIdleReminderFunc(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onIdleReminder = fn
}

// Present displays an event: enqueue, evicting the oldest entry first if
// the queue is full, then re-stack. Presenting a Stop event arms the idle
// reminder timer; idle reminders themselves are Notification-kind and
// never re-arm it.
func (q *Queue) Present(event domain.Event) domain.NotificationEntry {
	q.mu.Lock()

	entry := domain.NewNotificationEntry(event, q.now())

	var evicted *domain.NotificationEntry
	if len(q.entries) >= q.capacity {
		// Eviction is a forced dismissal of the oldest entry
		oldest := q.entries[len(q.entries)-1]
		evicted = &oldest
		q.entries = q.entries[:len(q.entries)-1]
	}

	q.entries = append(q.entries, entry)
	q.restackLocked()
	snapshot := q.snapshotLocked()

	if event.Kind == domain.KindStop {
		q.armIdleLocked()
	}
	q.mu.Unlock()

	if evicted != nil {
		logging.Logger.Debug("Evicted oldest notification", "entry_id", evicted.ID)
		q.presenter.OnDismiss(evicted.ID)
	}
	q.presenter.OnPresent(entry)
	q.presenter.OnQueueChanged(snapshot)

	return entry
}

// Dismiss removes an entry from anywhere in the queue, used for
// user-initiated close. Unknown ids are a no-op.
func (q *Queue) Dismiss(entryID string) {
	q.mu.Lock()
	found := false
	for i, entry := range q.entries {
		if entry.ID == entryID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		q.mu.Unlock()
		return
	}
	q.restackLocked()
	snapshot := q.snapshotLocked()
	q.mu.Unlock()

	q.presenter.OnDismiss(entryID)
	q.presenter.OnQueueChanged(snapshot)
}

// Entries returns the current display order, newest first
func (q *Queue) Entries() []domain.NotificationEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// DisarmIdleReminder cancels the idle reminder timer. Cancellation wins
// against a concurrently firing timer: the fire callback discards itself
// when it observes a newer generation.
func (q *Queue) DisarmIdleReminder() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.disarmIdleLocked()
}

// Close disarms the idle timer and clears the displayed entries
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.disarmIdleLocked()
	q.entries = nil
}

// restackLocked recomputes the display order from scratch, newest first.
// Recomputing rather than patching keeps the order drift-free.
func (q *Queue) restackLocked() {
	sort.SliceStable(q.entries, func(i, j int) bool {
		return q.entries[i].DisplayedAt.After(q.entries[j].DisplayedAt)
	})
}

func (q *Queue) snapshotLocked() []domain.NotificationEntry {
	snapshot := make([]domain.NotificationEntry, len(q.entries))
	copy(snapshot, q.entries)
	return snapshot
}

func (q *Queue) armIdleLocked() {
	q.disarmIdleLocked()
	if q.idleDelay <= 0 || q.onIdleReminder == nil {
		return
	}

	generation := q.idleGeneration
	q.idleTimer = time.AfterFunc(q.idleDelay, func() {
		q.mu.Lock()
		if q.idleGeneration != generation {
			// Cancel won the race; discard this fire
			q.mu.Unlock()
			return
		}
		q.idleTimer = nil
		q.idleGeneration++
		fn := q.onIdleReminder
		q.mu.Unlock()

		logging.Logger.Debug("Idle reminder timer fired")
		fn()
	})
}

func (q *Queue) disarmIdleLocked() {
	q.idleGeneration++
	if q.idleTimer != nil {
		q.idleTimer.Stop()
		q.idleTimer = nil
	}
}
