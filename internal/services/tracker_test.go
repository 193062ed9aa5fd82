package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, store *fakeSessionStore) *Tracker {
	t.Helper()
	tracker := NewTracker(store, time.Hour)
	t.Cleanup(func() { _ = tracker.Close() })
	return tracker
}

func TestTracker_RecordStartIdempotent(t *testing.T) {
	tracker := newTestTracker(t, newFakeSessionStore())
	first := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	later := first.Add(5 * time.Minute)

	assert.True(t, tracker.RecordStart("session-1", first))
	assert.False(t, tracker.RecordStart("session-1", later))

	duration, ok := tracker.Duration("session-1", first.Add(10*time.Minute))
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute, duration)
}

func TestTracker_RecordStartEmptySessionID(t *testing.T) {
	tracker := newTestTracker(t, newFakeSessionStore())

	assert.False(t, tracker.RecordStart("", time.Now()))
	assert.Equal(t, 0, tracker.SessionCount())
}

func TestTracker_DurationUnknownSession(t *testing.T) {
	tracker := newTestTracker(t, newFakeSessionStore())

	_, ok := tracker.Duration("missing", time.Now())
	assert.False(t, ok)
}

func TestTracker_ClearSession(t *testing.T) {
	tracker := newTestTracker(t, newFakeSessionStore())
	tracker.RecordStart("session-1", time.Now())

	require.True(t, tracker.IsTracking("session-1"))
	tracker.ClearSession("session-1")
	assert.False(t, tracker.IsTracking("session-1"))

	// Clearing again is a no-op
	tracker.ClearSession("session-1")
	assert.Equal(t, 0, tracker.SessionCount())
}

func TestTracker_SubagentsIdempotent(t *testing.T) {
	tracker := newTestTracker(t, newFakeSessionStore())

	assert.True(t, tracker.RecordSubagentStart("sub-1"))
	assert.False(t, tracker.RecordSubagentStart("sub-1"))
	assert.Equal(t, 1, tracker.ActiveSubagentCount())

	assert.True(t, tracker.RecordSubagentStop("sub-1"))
	assert.False(t, tracker.RecordSubagentStop("sub-1"))
	assert.Equal(t, 0, tracker.ActiveSubagentCount())
}

func TestTracker_TotalActiveAgentCount(t *testing.T) {
	tracker := newTestTracker(t, newFakeSessionStore())

	tracker.RecordStart("session-1", time.Now())
	tracker.RecordStart("session-2", time.Now())
	tracker.RecordSubagentStart("sub-1")

	assert.Equal(t, 2, tracker.SessionCount())
	assert.Equal(t, 1, tracker.ActiveSubagentCount())
	assert.Equal(t, 3, tracker.TotalActiveAgentCount())
}

func TestTracker_CleanupStale(t *testing.T) {
	tracker := newTestTracker(t, newFakeSessionStore())
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tracker.RecordStart("old", now.Add(-48*time.Hour))
	tracker.RecordStart("fresh", now.Add(-1*time.Hour))

	removed := tracker.CleanupStale(24*time.Hour, now)

	assert.Equal(t, 1, removed)
	assert.False(t, tracker.IsTracking("old"))
	assert.True(t, tracker.IsTracking("fresh"))
}

func TestTracker_LoadsExistingState(t *testing.T) {
	store := newFakeSessionStore()
	start := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	store.sessions["session-1"] = start

	tracker := newTestTracker(t, store)

	require.True(t, tracker.IsTracking("session-1"))
	duration, ok := tracker.Duration("session-1", start.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, time.Minute, duration)
}

func TestTracker_LoadFailOpen(t *testing.T) {
	store := newFakeSessionStore()
	store.loadErr = errors.New("corrupt file")

	tracker := newTestTracker(t, store)

	assert.Equal(t, 0, tracker.SessionCount())
	assert.True(t, tracker.RecordStart("session-1", time.Now()))
}

func TestTracker_FlushPersistsSessions(t *testing.T) {
	store := newFakeSessionStore()
	tracker := newTestTracker(t, store)
	start := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	tracker.RecordStart("session-1", start)
	require.NoError(t, tracker.Flush())

	saved := store.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, start, saved["session-1"])
}

func TestTracker_FlushErrorKeepsMemoryState(t *testing.T) {
	store := newFakeSessionStore()
	tracker := newTestTracker(t, store)
	tracker.RecordStart("session-1", time.Now())

	store.saveErr = errors.New("disk full")
	require.Error(t, tracker.Flush())
	assert.True(t, tracker.IsTracking("session-1"))

	// Next flush retries successfully
	store.saveErr = nil
	require.NoError(t, tracker.Flush())
	assert.Len(t, store.saved(), 1)
}

func TestTracker_CoalescedFlush(t *testing.T) {
	store := newFakeSessionStore()
	tracker := NewTracker(store, 20*time.Millisecond)
	defer tracker.Close()

	tracker.RecordStart("session-1", time.Now())
	tracker.RecordStart("session-2", time.Now())

	require.Eventually(t, func() bool {
		return len(store.saved()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestTracker_CloseFlushesDirtyState(t *testing.T) {
	store := newFakeSessionStore()
	tracker := NewTracker(store, time.Hour)

	tracker.RecordStart("session-1", time.Now())
	require.NoError(t, tracker.Close())

	assert.Len(t, store.saved(), 1)
}
