// Package summary shows a session's study notes: the summary and the
// glossary of key concepts, one tab at a time.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartstudy/internal/screen"
	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/layout"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// Tab selects which part of the notes is shown.
type Tab int

const (
	TabSummary Tab = iota
	TabGlossary
)

func (t Tab) String() string {
	if t == TabGlossary {
		return "Glossary"
	}
	return "Summary"
}

// SummaryScreen implements screen.Screen.
type SummaryScreen struct {
	session study.Session
	styles  theme.Styles
	tab     Tab
	offset  int // first visible line
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

func New(s study.Session, styles theme.Styles) *SummaryScreen {
	return &SummaryScreen{session: s, styles: styles}
}

func (s *SummaryScreen) Init() tea.Cmd { return nil }

func (s *SummaryScreen) Title() string { return layout.PlainText(s.session.Title) }

func (s *SummaryScreen) Status() string { return s.tab.String() }

// Tab returns the visible tab.
func (s *SummaryScreen) Tab() Tab { return s.tab }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "tab", "left", "right", "h", "l":
		s.tab = 1 - s.tab
		s.offset = 0
	case "1":
		s.tab, s.offset = TabSummary, 0
	case "2":
		s.tab, s.offset = TabGlossary, 0
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		s.offset++
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	contentWidth := min(width-4, 90)

	var tabs []string
	for _, t := range []Tab{TabSummary, TabGlossary} {
		label := fmt.Sprintf(" %d %s ", int(t)+1, t)
		if t == s.tab {
			tabs = append(tabs, s.styles.Selected.Render(label))
		} else {
			tabs = append(tabs, s.styles.Dim.Render(label))
		}
	}
	header := strings.Join(tabs, "  ")

	var body string
	if s.tab == TabGlossary {
		body = s.renderGlossary(contentWidth)
	} else {
		body = s.styles.Body.Width(contentWidth).Render(layout.PlainText(s.session.Summary))
	}

	lines := strings.Split(body, "\n")
	visible := max(height-3, 1)
	s.offset = min(s.offset, max(len(lines)-visible, 0))
	end := min(s.offset+visible, len(lines))

	page := header + "\n\n" + strings.Join(lines[s.offset:end], "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, page)
}

func (s *SummaryScreen) renderGlossary(width int) string {
	if len(s.session.KeyConcepts) == 0 {
		return s.styles.Hint.Render("No key concepts.")
	}
	var b strings.Builder
	for i, c := range s.session.KeyConcepts {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.styles.Title.Render(layout.PlainText(c.Term)))
		b.WriteByte('\n')
		b.WriteString(s.styles.Body.Width(width).Render(layout.PlainText(c.Definition)))
		if c.Example != "" {
			b.WriteByte('\n')
			b.WriteString(s.styles.Hint.Width(width).Render("e.g. " + layout.PlainText(c.Example)))
		}
	}
	return b.String()
}
