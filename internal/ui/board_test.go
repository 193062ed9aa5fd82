package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/vigia/internal/domain"
)

type recordingDismisser struct {
	ids []string
}

func (d *recordingDismisser) Dismiss(entryID string) {
	d.ids = append(d.ids, entryID)
}

func entryFor(id, cwd string) domain.NotificationEntry {
	return domain.NotificationEntry{
		ID:          id,
		DisplayedAt: time.Now(),
		Event: domain.Event{
			ID:        "event-" + id,
			Kind:      domain.KindStop,
			Timestamp: time.Now(),
			Cwd:       cwd,
			Stop:      &domain.StopDetail{Reason: domain.ReasonEndTurn},
		},
	}
}

func TestBoard_RendersQueueSnapshot(t *testing.T) {
	model := NewModel(&recordingDismisser{})

	updated, _ := model.Update(queueChangedMsg{entries: []domain.NotificationEntry{
		entryFor("n1", "/home/user/alpha"),
	}})

	view := updated.View()
	assert.Contains(t, view, "alpha")
	assert.NotContains(t, view, "No notifications")
}

func TestBoard_EmptyState(t *testing.T) {
	model := NewModel(&recordingDismisser{})

	assert.Contains(t, model.View(), "No notifications")
}

func TestBoard_DismissTargetsNewestEntry(t *testing.T) {
	dismisser := &recordingDismisser{}
	model := NewModel(dismisser)

	model.Update(queueChangedMsg{entries: []domain.NotificationEntry{
		entryFor("newest", "/repo/a"),
		entryFor("oldest", "/repo/b"),
	}})
	model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, []string{"newest"}, dismisser.ids)
}

func TestBoard_DismissAll(t *testing.T) {
	dismisser := &recordingDismisser{}
	model := NewModel(dismisser)

	model.Update(queueChangedMsg{entries: []domain.NotificationEntry{
		entryFor("n1", "/repo/a"),
		entryFor("n2", "/repo/b"),
	}})
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'X'}})

	assert.Equal(t, []string{"n1", "n2"}, dismisser.ids)
}

func TestBoard_QuitKey(t *testing.T) {
	model := NewModel(&recordingDismisser{})

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
