package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Pause   key.Binding
	Finish  key.Binding
	Abandon key.Binding
	New     key.Binding
	Retry   key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
	Pause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
	Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
	Abandon: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard")),
	New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new session")),
	Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry prayer times")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
