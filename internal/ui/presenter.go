package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/domain"
)

// BoardPresenter bridges the queue's presenter callbacks onto the running
// bubbletea program. Send is safe from any goroutine, so the correlation
// engine can drive the board without extra synchronization.
type BoardPresenter struct {
	program *tea.Program
}

// NewBoardPresenter wraps a running program
func NewBoardPresenter(program *tea.Program) *BoardPresenter {
	return &BoardPresenter{program: program}
}

func (p *BoardPresenter) OnPresent(entry domain.NotificationEntry) {
	// The board redraws from queue snapshots; the present itself needs no
	// dedicated message.
}

func (p *BoardPresenter) OnDismiss(entryID string) {
	p.program.Send(dismissedMsg{entryID: entryID})
}

func (p *BoardPresenter) OnQueueChanged(entries []domain.NotificationEntry) {
	p.program.Send(queueChangedMsg{entries: entries})
}
