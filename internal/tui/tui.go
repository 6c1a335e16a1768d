// Package tui implements the interactive model browser.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ollamatray-io/ollamatray/internal/models"
)

// Run launches the model browser for the given list.
func Run(mdls []models.Model) error {
	p := tea.NewProgram(
		newModel(mdls),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
