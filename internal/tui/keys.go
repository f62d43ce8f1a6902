package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings shared by every screen.
type keyMap struct {
	Save    key.Binding
	Help    key.Binding
	Restore key.Binding
	Back    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Save: key.NewBinding(
			key.WithKeys("f2", "ctrl+s"),
			key.WithHelp("F2", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("R", "restore backup"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("ESC", "return"),
		),
	}
}
