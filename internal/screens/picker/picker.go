// Package picker lists the user's study sessions and opens the chosen one.
package picker

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartstudy/internal/router"
	"github.com/abhisek/smartstudy/internal/screen"
	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/components"
	"github.com/abhisek/smartstudy/internal/ui/layout"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// ListFunc loads sessions, newest first.
type ListFunc func(ctx context.Context) ([]study.Session, error)

// OpenFunc builds the screen for a chosen session.
type OpenFunc func(s study.Session) (screen.Screen, error)

type sessionsLoadedMsg struct {
	Sessions []study.Session
	Err      error
}

type openFailedMsg struct {
	Err error
}

// ViewFunc builds a read-only screen for a session, e.g. its notes.
type ViewFunc func(s study.Session) screen.Screen

// PickerScreen implements screen.Screen.
type PickerScreen struct {
	list     ListFunc
	open     OpenFunc
	history  ViewFunc
	notes    ViewFunc
	styles   theme.Styles
	menu     components.Menu
	sessions []study.Session
	loading  bool
	err      error
	count    int
}

// Option configures a PickerScreen.
type Option func(*PickerScreen)

// WithHistory makes "h" open the highlighted session's attempt history.
func WithHistory(f ViewFunc) Option {
	return func(p *PickerScreen) { p.history = f }
}

// WithNotes makes "s" open the highlighted session's summary and glossary.
func WithNotes(f ViewFunc) Option {
	return func(p *PickerScreen) { p.notes = f }
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// New creates a picker. Sessions load when the screen is initialised.
func New(list ListFunc, open OpenFunc, styles theme.Styles, opts ...Option) *PickerScreen {
	p := &PickerScreen{list: list, open: open, styles: styles, loading: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PickerScreen) Init() tea.Cmd {
	list := p.list
	return func() tea.Msg {
		sessions, err := list(context.Background())
		return sessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (p *PickerScreen) Title() string { return "Study sessions" }

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start quiz"},
	}
	if p.notes != nil {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Notes"})
	}
	if p.history != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsLoadedMsg:
		p.loading = false
		p.err = msg.Err
		p.setSessions(msg.Sessions)
		return p, nil
	case openFailedMsg:
		p.err = msg.Err
		return p, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "h":
			return p, p.pushFor(p.history)
		case "s":
			return p, p.pushFor(p.notes)
		}
		var cmd tea.Cmd
		p.menu, cmd = p.menu.Update(msg)
		return p, cmd
	}
	return p, nil
}

// pushFor opens build's screen for the highlighted session.
func (p *PickerScreen) pushFor(build ViewFunc) tea.Cmd {
	if build == nil || p.menu.Selected < 0 || p.menu.Selected >= len(p.sessions) {
		return nil
	}
	scr := build(p.sessions[p.menu.Selected])
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

func (p *PickerScreen) setSessions(sessions []study.Session) {
	p.count = len(sessions)
	p.sessions = sessions
	items := make([]components.MenuItem, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, components.MenuItem{
			Label:    layout.PlainText(s.Title),
			Detail:   describe(s),
			Disabled: len(s.Quiz) == 0,
			Action:   p.openCmd(s),
		})
	}
	p.menu = components.NewMenu(items, p.styles)
}

func (p *PickerScreen) openCmd(s study.Session) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			scr, err := p.open(s)
			if err != nil {
				return openFailedMsg{Err: err}
			}
			return router.PushScreenMsg{Screen: scr}
		}
	}
}

func describe(s study.Session) string {
	parts := []string{fmt.Sprintf("%d questions", len(s.Quiz))}
	if !s.CreatedAt.IsZero() {
		parts = append(parts, s.CreatedAt.Local().Format("2 Jan 2006"))
	}
	return strings.Join(parts, " · ")
}

func (p *PickerScreen) View(width, height int) string {
	var body string
	switch {
	case p.loading:
		body = p.styles.Hint.Render("Loading sessions…")
	case p.err != nil && p.count == 0:
		body = p.styles.Incorrect.Render(fmt.Sprintf("Could not load sessions: %v", p.err))
	case p.count == 0:
		body = p.styles.Hint.Render("No sessions yet. Run `smartstudy analyze` to create one.")
	default:
		body = p.menu.View()
		if p.err != nil {
			body += "\n" + p.styles.Incorrect.Render(p.err.Error())
		}
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
