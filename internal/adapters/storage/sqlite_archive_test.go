package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/vigia/internal/domain"
)

func newTestArchive(t *testing.T) *SQLiteArchive {
	t.Helper()
	archive, err := NewSQLiteArchive(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func archivedStop(id string, ts time.Time, cwd string) domain.Event {
	duration := 5 * time.Minute
	return domain.Event{
		Cwd:       cwd,
		Duration:  &duration,
		ID:        id,
		Kind:      domain.KindStop,
		SessionID: "s-" + id,
		Stop:      &domain.StopDetail{Reason: domain.ReasonEndTurn},
		Summary:   &domain.TaskSummary{Text: "did the thing", UserPrompt: "do the thing"},
		Timestamp: ts,
	}
}

func TestSQLiteArchive_RoundTrip(t *testing.T) {
	archive := newTestArchive(t)
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, archive.Archive([]domain.Event{
		archivedStop("e1", base, "/work/alpha"),
		archivedStop("e2", base.Add(time.Hour), "/work/beta"),
	}))

	events, err := archive.List(0)

	require.NoError(t, err)
	require.Len(t, events, 2)
	// Newest first
	assert.Equal(t, "e2", events[0].ID)
	assert.Equal(t, "e1", events[1].ID)
	require.NotNil(t, events[0].Duration)
	assert.Equal(t, 5*time.Minute, *events[0].Duration)
	require.NotNil(t, events[0].Stop)
	assert.Equal(t, domain.ReasonEndTurn, events[0].Stop.Reason)
	require.NotNil(t, events[0].Summary)
	assert.Equal(t, "did the thing", events[0].Summary.Text)
}

func TestSQLiteArchive_ArchiveIsIdempotent(t *testing.T) {
	archive := newTestArchive(t)
	event := archivedStop("e1", time.Now().UTC(), "/work/alpha")

	require.NoError(t, archive.Archive([]domain.Event{event}))
	require.NoError(t, archive.Archive([]domain.Event{event}))

	events, err := archive.List(0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSQLiteArchive_ListForProject(t *testing.T) {
	archive := newTestArchive(t)
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, archive.Archive([]domain.Event{
		archivedStop("e1", base, "/work/alpha"),
		archivedStop("e2", base.Add(time.Hour), "/work/beta"),
		archivedStop("e3", base.Add(2*time.Hour), "/work/alpha"),
	}))

	events, err := archive.ListForProject("alpha", 0)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e3", events[0].ID)
	assert.Equal(t, "e1", events[1].ID)
}

func TestSQLiteArchive_ListLimit(t *testing.T) {
	archive := newTestArchive(t)
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, archive.Archive([]domain.Event{
		archivedStop("e1", base, "/w"),
		archivedStop("e2", base.Add(time.Hour), "/w"),
		archivedStop("e3", base.Add(2*time.Hour), "/w"),
	}))

	events, err := archive.List(2)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e3", events[0].ID)
}

func TestSQLiteArchive_EmptyArchiveCall(t *testing.T) {
	archive := newTestArchive(t)

	require.NoError(t, archive.Archive(nil))

	events, err := archive.List(0)
	require.NoError(t, err)
	assert.Empty(t, events)
}
