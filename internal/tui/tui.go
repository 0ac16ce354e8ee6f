package tui

import (
	"deskplan/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(s store.Store, db *store.DB) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(s, db)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
