package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/vigia/internal/domain"
)

func newTestQueue(t *testing.T, capacity int, presenter *fakePresenter) *Queue {
	t.Helper()
	queue := NewQueue(capacity, 0, presenter)
	t.Cleanup(queue.Close)
	return queue
}

func TestQueue_PresentNewestFirst(t *testing.T) {
	presenter := &fakePresenter{}
	queue := newTestQueue(t, 5, presenter)
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := base
	queue.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first := queue.Present(stopEvent("a", base, "/repo"))
	second := queue.Present(stopEvent("b", base, "/repo"))

	entries := queue.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, 2, presenter.presentedCount())
}

func TestQueue_CapacityEvictsOldest(t *testing.T) {
	presenter := &fakePresenter{}
	queue := newTestQueue(t, 2, presenter)
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := base
	queue.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	oldest := queue.Present(stopEvent("a", base, "/repo"))
	middle := queue.Present(stopEvent("b", base, "/repo"))
	newest := queue.Present(stopEvent("c", base, "/repo"))

	entries := queue.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, newest.ID, entries[0].ID)
	assert.Equal(t, middle.ID, entries[1].ID)

	// Eviction is a forced dismissal of the oldest entry
	assert.Equal(t, []string{oldest.ID}, presenter.dismissedIDs())
}

func TestQueue_DismissRemovesAnywhere(t *testing.T) {
	presenter := &fakePresenter{}
	queue := newTestQueue(t, 5, presenter)
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := base
	queue.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first := queue.Present(stopEvent("a", base, "/repo"))
	second := queue.Present(stopEvent("b", base, "/repo"))
	third := queue.Present(stopEvent("c", base, "/repo"))

	queue.Dismiss(second.ID)

	entries := queue.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, third.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, []string{second.ID}, presenter.dismissedIDs())
}

func TestQueue_DismissUnknownIDIsNoOp(t *testing.T) {
	presenter := &fakePresenter{}
	queue := newTestQueue(t, 5, presenter)

	queue.Present(stopEvent("a", time.Now(), "/repo"))
	before := len(presenter.lastSnapshot())

	queue.Dismiss("no-such-entry")

	assert.Len(t, queue.Entries(), 1)
	assert.Empty(t, presenter.dismissedIDs())
	assert.Len(t, presenter.lastSnapshot(), before)
}

func TestQueue_QueueChangedSnapshots(t *testing.T) {
	presenter := &fakePresenter{}
	queue := newTestQueue(t, 5, presenter)

	entry := queue.Present(stopEvent("a", time.Now(), "/repo"))
	require.Len(t, presenter.lastSnapshot(), 1)

	queue.Dismiss(entry.ID)
	assert.Empty(t, presenter.lastSnapshot())
}

func TestQueue_IdleReminderFiresAfterStop(t *testing.T) {
	presenter := &fakePresenter{}
	queue := NewQueue(5, 20*time.Millisecond, presenter)
	defer queue.Close()

	fired := make(chan struct{}, 1)
	queue.SetIdleReminderFunc(func() { fired <- struct{}{} })

	queue.Present(stopEvent("a", time.Now(), "/repo"))

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("idle reminder never fired")
	}
}

func TestQueue_IdleReminderNotArmedForNotifications(t *testing.T) {
	presenter := &fakePresenter{}
	queue := NewQueue(5, 20*time.Millisecond, presenter)
	defer queue.Close()

	fired := make(chan struct{}, 1)
	queue.SetIdleReminderFunc(func() { fired <- struct{}{} })

	queue.Present(domain.NewIdleReminder(time.Now()))

	select {
	case <-fired:
		t.Fatal("idle reminder re-armed itself")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestQueue_DisarmCancelsReminder(t *testing.T) {
	presenter := &fakePresenter{}
	queue := NewQueue(5, 50*time.Millisecond, presenter)
	defer queue.Close()

	fired := make(chan struct{}, 1)
	queue.SetIdleReminderFunc(func() { fired <- struct{}{} })

	queue.Present(stopEvent("a", time.Now(), "/repo"))
	queue.DisarmIdleReminder()

	select {
	case <-fired:
		t.Fatal("idle reminder fired after disarm")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestQueue_ReminderRearmsPerStop(t *testing.T) {
	presenter := &fakePresenter{}
	queue := NewQueue(5, 20*time.Millisecond, presenter)
	defer queue.Close()

	fired := make(chan struct{}, 2)
	queue.SetIdleReminderFunc(func() { fired <- struct{}{} })

	queue.Present(stopEvent("a", time.Now(), "/repo"))
	<-fired

	queue.Present(stopEvent("b", time.Now(), "/repo"))
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("second stop did not re-arm the reminder")
	}
}
