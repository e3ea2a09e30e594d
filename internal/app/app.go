// Package app is the Bubble Tea shell: a router of screens framed by a
// header and footer.
package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartstudy/internal/router"
	"github.com/abhisek/smartstudy/internal/screen"
	"github.com/abhisek/smartstudy/internal/ui/layout"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// Model is the root Bubble Tea model.
type Model struct {
	router *router.Router
	styles theme.Styles
	width  int
	height int
}

// New creates a Model showing initial.
func New(initial screen.Screen, styles theme.Styles) Model {
	return Model{
		router: router.New(initial),
		styles: styles,
	}
}

func (m Model) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, m.router.Pop()
		}
	}

	return m, m.router.Update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.styles, m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			hints = kp.KeyHints()
		}
	}
	if hints == nil {
		hints = m.defaultHints()
	}

	header := layout.RenderHeader(m.styles, title, status, m.width)
	footer := layout.RenderFooter(m.styles, hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m Model) defaultHints() []layout.KeyHint {
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Run starts the program on initial and blocks until it exits. It returns
// the final active screen so callers can read its outcome.
func Run(initial screen.Screen, styles theme.Styles) (screen.Screen, error) {
	final, err := tea.NewProgram(New(initial, styles)).Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(Model); ok {
		return fm.router.Active(), nil
	}
	return nil, nil
}
