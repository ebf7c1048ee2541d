package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Split   key.Binding
	Invert  key.Binding
	Undo    key.Binding
	Redo    key.Binding
	Lock    key.Binding
	Up      key.Binding
	Down    key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Split:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "split")),
		Invert:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invert")),
		Undo:    key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:    key.NewBinding(key.WithKeys("r", "ctrl+y"), key.WithHelp("r", "redo")),
		Lock:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "cycle lock")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Dismiss: key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "dismiss")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Split, k.Invert, k.Undo, k.Redo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Split, k.Invert, k.Undo, k.Redo},
		{k.Up, k.Down, k.Lock},
		{k.Dismiss, k.Help, k.Quit},
	}
}
