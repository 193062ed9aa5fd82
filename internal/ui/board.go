package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/theme"
)

// Dismisser removes a notification from the queue on behalf of the user
type Dismisser interface {
	Dismiss(entryID string)
}

type queueChangedMsg struct {
	entries []domain.NotificationEntry
}

type dismissedMsg struct {
	entryID string
}

// Model is the notification board: a read-only view of the queue with key
// bindings to dismiss entries. All queue mutations go through the
// Dismisser; the board only reflects OnQueueChanged snapshots.
type Model struct {
	dismisser Dismisser
	entries   []domain.NotificationEntry
	keys      KeyMap
	width     int
	height    int
}

// NewModel creates the notification board model
func NewModel(dismisser Dismisser) *Model {
	return &Model{
		dismisser: dismisser,
		keys:      NewKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case queueChangedMsg:
		m.entries = msg.entries

	case dismissedMsg:
		// The authoritative removal arrives via queueChangedMsg; nothing
		// to do here beyond keeping the message type routable.

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dismiss):
			if len(m.entries) > 0 {
				m.dismisser.Dismiss(m.entries[0].ID)
			}
		case key.Matches(msg, m.keys.DismissAll):
			for _, entry := range m.entries {
				m.dismisser.Dismiss(entry.ID)
			}
		}
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("vigia"))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(theme.MutedStyle.Render("No notifications"))
		b.WriteString("\n")
	} else {
		for _, entry := range m.entries {
			b.WriteString(renderCard(entry))
			b.WriteString("\n")
		}
	}

	b.WriteString(theme.HelpStyle.Render(renderHelp(m.keys)))
	return b.String()
}

func renderCard(entry domain.NotificationEntry) string {
	event := entry.Event

	var lines []string
	header := cardIcon(event) + " " + theme.ProjectStyle.Render(headline(event))
	header += " " + theme.MutedStyle.Render(formatRelativeTime(entry.DisplayedAt))
	lines = append(lines, header)

	if message := event.DisplayMessage(); message != "" {
		lines = append(lines, theme.NormalStyle.Render(message))
	}
	if event.Summary != nil && event.Summary.Text != "" {
		lines = append(lines, theme.SummaryStyle.Render(event.Summary.Text))
	}
	if event.Duration != nil {
		lines = append(lines, theme.MutedStyle.Render("took "+formatDuration(*event.Duration)))
	}

	return theme.CardStyle.Render(strings.Join(lines, "\n"))
}

func headline(event domain.Event) string {
	if project := event.Project(); project != "" {
		return project
	}
	return "claude"
}

func cardIcon(event domain.Event) string {
	switch {
	case event.Interrupted():
		return theme.InterruptedIconStyle.Render("●")
	case event.Kind == domain.KindNotification:
		return theme.IdleIconStyle.Render("●")
	default:
		return theme.CompletedIconStyle.Render("●")
	}
}

func renderHelp(keys KeyMap) string {
	var parts []string
	for _, binding := range keys.ShortHelp() {
		help := binding.Help()
		parts = append(parts, fmt.Sprintf("%s %s", help.Key, help.Desc))
	}
	return strings.Join(parts, " • ")
}

// formatDuration renders a duration the way humans read task lengths
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}
