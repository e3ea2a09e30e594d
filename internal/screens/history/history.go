// Package history shows the saved quiz attempts for one session with their
// count, mean and best, and expands an attempt into its per-question marks.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartstudy/internal/quiz"
	"github.com/abhisek/smartstudy/internal/screen"
	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/layout"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// AttemptsFunc loads a session's attempts, newest first.
type AttemptsFunc func(ctx context.Context, sessionID string) ([]study.Attempt, error)

type attemptsLoadedMsg struct {
	Attempts []study.Attempt
	Err      error
}

// HistoryScreen implements screen.Screen.
type HistoryScreen struct {
	session study.Session
	load    AttemptsFunc
	styles  theme.Styles

	attempts []study.Attempt
	stats    quiz.Stats
	selected int
	expanded map[int]bool
	loaded   bool
	err      error
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.StatusProvider = (*HistoryScreen)(nil)

func New(s study.Session, load AttemptsFunc, styles theme.Styles) *HistoryScreen {
	return &HistoryScreen{
		session:  s,
		load:     load,
		styles:   styles,
		expanded: make(map[int]bool),
	}
}

func (h *HistoryScreen) Init() tea.Cmd {
	load, id := h.load, h.session.ID
	return func() tea.Msg {
		attempts, err := load(context.Background(), id)
		return attemptsLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (h *HistoryScreen) Title() string { return layout.PlainText(h.session.Title) }

func (h *HistoryScreen) Status() string {
	if !h.loaded || h.err != nil {
		return ""
	}
	return fmt.Sprintf("%d attempts", len(h.attempts))
}

func (h *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (h *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case attemptsLoadedMsg:
		h.loaded = true
		h.err = msg.Err
		h.attempts = msg.Attempts
		h.stats, _ = quiz.Aggregate(msg.Attempts)
		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if h.selected > 0 {
				h.selected--
			}
		case "down", "j":
			if h.selected < len(h.attempts)-1 {
				h.selected++
			}
		case "enter", "space":
			if len(h.attempts) > 0 {
				h.expanded[h.selected] = !h.expanded[h.selected]
			}
		}
	}
	return h, nil
}

func (h *HistoryScreen) View(width, height int) string {
	var body string
	switch {
	case !h.loaded:
		body = h.styles.Hint.Render("Loading attempts…")
	case h.err != nil:
		body = h.styles.Incorrect.Render(fmt.Sprintf("Could not load attempts: %v", h.err))
	case len(h.attempts) == 0:
		body = h.styles.Hint.Render("No attempts yet. Take the quiz to start your history.")
	default:
		body = h.renderAttempts()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (h *HistoryScreen) renderAttempts() string {
	var b strings.Builder

	b.WriteString(h.styles.Title.Render(fmt.Sprintf(
		"%d attempts · mean %d%% · best %d%%", h.stats.Count, h.stats.Mean, h.stats.Best)))
	b.WriteString("\n\n")

	for i, a := range h.attempts {
		prefix := "    "
		style := h.styles.Unselected
		if i == h.selected {
			prefix = "  ▸ "
			style = h.styles.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s  %d/%d",
			prefix, a.CreatedAt.Local().Format("2 Jan 2006 15:04"), a.Score, a.Total)))
		b.WriteString("  ")
		b.WriteString(h.styles.ScoreStyle(a.Percentage).Render(fmt.Sprintf("%d%%", a.Percentage)))
		b.WriteByte('\n')

		if h.expanded[i] {
			for n, ans := range a.Answers {
				mark := h.styles.Correct.Render("✓")
				if !ans.Correct {
					mark = h.styles.Incorrect.Render("✗")
				}
				b.WriteString(fmt.Sprintf("        %s %2d. %s\n", mark, n+1,
					h.styles.Dim.Render(layout.PlainText(ans.Question))))
			}
		}
	}
	return b.String()
}
