package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every chat-view binding. Enter is not remappable: it is the
// send key, and Shift+Enter (or Alt+Enter where the terminal cannot report
// Shift) inserts a newline.
type keyMap struct {
	Send        key.Binding
	SendButton  key.Binding
	Newline     key.Binding
	Quit        key.Binding
	Help        key.Binding
	Copy        key.Binding
	Search      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	GotoBottom  key.Binding
	CloseSearch key.Binding
	SearchUp    key.Binding
	SearchDown  key.Binding
	SearchJump  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "Send"),
		),
		SendButton: key.NewBinding(
			key.WithKeys("alt+s"),
			key.WithHelp("Alt+S", "Send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("shift+enter", "alt+enter"),
			key.WithHelp("Shift/Alt+Enter", "New line"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "alt+q"),
			key.WithHelp("Alt+Q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("alt+h"),
			key.WithHelp("Alt+H", "Help"),
		),
		Copy: key.NewBinding(
			key.WithKeys("alt+y"),
			key.WithHelp("Alt+Y", "Copy reply"),
		),
		Search: key.NewBinding(
			key.WithKeys("alt+f"),
			key.WithHelp("Alt+F", "Search"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "Page down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("alt+up", "alt+k"),
			key.WithHelp("Alt+↑", "Scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("alt+down", "alt+j"),
			key.WithHelp("Alt+↓", "Scroll down"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("alt+G", "end"),
			key.WithHelp("End", "Latest"),
		),
		CloseSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Close"),
		),
		SearchUp: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "Prev"),
		),
		SearchDown: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "Next"),
		),
		SearchJump: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "Jump"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Newline, k.Copy, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.SendButton, k.Newline, k.Copy},
		{k.PageUp, k.PageDown, k.ScrollUp, k.ScrollDown, k.GotoBottom},
		{k.Search, k.Help, k.Quit},
	}
}
