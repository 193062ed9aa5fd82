package theme

import "github.com/charmbracelet/lipgloss"

// Main UI styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 0)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(1, 0)
)

// Notification card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	CompletedIconStyle = lipgloss.NewStyle().
				Foreground(ColorCompleted)

	IdleIconStyle = lipgloss.NewStyle().
			Foreground(ColorIdle)

	InterruptedIconStyle = lipgloss.NewStyle().
				Foreground(ColorInterrupted)

	ProjectStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight)

	SummaryStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)
)
