package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/session"
)

// Run starts the console at start and blocks until the user quits
func Run(backend Backend, store session.Store, start string) error {
	p := tea.NewProgram(NewModel(backend, store, start), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
