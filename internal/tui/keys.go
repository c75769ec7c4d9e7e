package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Tab   key.Binding
	Back  key.Binding
	Enter key.Binding
	Space key.Binding
	Help  key.Binding
	Quit  key.Binding

	// navbar
	Dashboard     key.Binding
	CreateUser    key.Binding
	CreateProject key.Binding
	Tasks         key.Binding
	Logout        key.Binding

	// board
	Move    key.Binding
	Refresh key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left column")),
	Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right column")),
	Tab:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
	Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/cancel")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/submit")),
	Space: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Help:  key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

	Dashboard:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "dashboard")),
	CreateUser:    key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "create user")),
	CreateProject: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "create project")),
	Tasks:         key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "tasks")),
	Logout:        key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "logout")),

	Move:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move task")),
	Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
}

// statusKey maps the digit shortcuts to board columns
func statusKey(s string) (int, bool) {
	switch s {
	case "1", "2", "3", "4":
		return int(s[0] - '1'), true
	}
	return 0, false
}
