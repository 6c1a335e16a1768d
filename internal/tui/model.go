package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ollamatray-io/ollamatray/internal/models"
)

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})
)

var copyBinding = key.NewBinding(
	key.WithKeys("enter", "c"),
	key.WithHelp("enter/c", "copy name"),
)

// item adapts a model entry to the bubbles list interface.
type item struct {
	model models.Model
}

func (i item) Title() string       { return i.model.Name }
func (i item) Description() string { return i.model.Size }
func (i item) FilterValue() string { return i.model.Name }

// Model is the bubbletea model for the model browser.
type Model struct {
	list list.Model
}

func newModel(mdls []models.Model) Model {
	items := make([]list.Item, len(mdls))
	for i, m := range mdls {
		items[i] = item{model: m}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Installed Ollama Models"
	l.Styles.Title = titleStyle
	l.SetStatusBarItemName("model", "models")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{copyBinding}
	}

	return Model{list: l}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := appStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

	case tea.KeyMsg:
		// Don't intercept keys while the filter input is active
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter", "c":
			return m, m.copySelected()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	return appStyle.Render(m.list.View())
}

// copySelected copies the selected model name to the clipboard.
func (m *Model) copySelected() tea.Cmd {
	selected, ok := m.list.SelectedItem().(item)
	if !ok {
		return nil
	}

	if err := clipboard.WriteAll(selected.model.Name); err != nil {
		return m.list.NewStatusMessage("Copy failed: " + err.Error())
	}
	return m.list.NewStatusMessage(statusStyle.Render(fmt.Sprintf("Copied %q", selected.model.Name)))
}
