package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the notification board key bindings
type KeyMap struct {
	Dismiss    key.Binding
	DismissAll key.Binding
	Quit       key.Binding
}

// NewKeyMap creates a KeyMap with all key bindings initialized
func NewKeyMap() KeyMap {
	return KeyMap{
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "dismiss newest"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "dismiss all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the key bindings for the bottom bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dismiss, k.DismissAll, k.Quit}
}
