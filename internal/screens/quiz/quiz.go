// Package quiz is the screen that runs one quiz attempt over a saved
// session and saves the result when the last question is advanced past.
package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	engine "github.com/abhisek/smartstudy/internal/quiz"
	"github.com/abhisek/smartstudy/internal/router"
	"github.com/abhisek/smartstudy/internal/screen"
	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/components"
	"github.com/abhisek/smartstudy/internal/ui/layout"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// SaveFunc persists a completed attempt.
type SaveFunc func(ctx context.Context, a study.Attempt) (study.Attempt, error)

const saveTimeout = 30 * time.Second

type saveStatus int

const (
	saveIdle saveStatus = iota
	saveSkipped
	saving
	saveDone
	saveFailed
)

// QuizScreen implements screen.Screen for one attempt.
type QuizScreen struct {
	session study.Session
	userID  string
	save    SaveFunc
	styles  theme.Styles

	engine *engine.Engine
	mc     components.MultiChoice

	// completed is set by the engine's completion callback and consumed
	// by the key handler that caused it.
	completed *engine.Result
	status    saveStatus
	saveErr   error
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.Holder = (*QuizScreen)(nil)

// New creates a quiz over s. With a nil save or empty userID the result is
// shown but not persisted.
func New(s study.Session, userID string, save SaveFunc, styles theme.Styles) (*QuizScreen, error) {
	q := &QuizScreen{
		session: s,
		userID:  userID,
		save:    save,
		styles:  styles,
	}
	e, err := engine.NewEngine(s.Quiz, engine.WithOnComplete(func(r engine.Result) {
		q.completed = &r
	}))
	if err != nil {
		return nil, err
	}
	q.engine = e
	q.resetChoice()
	return q, nil
}

func (q *QuizScreen) Init() tea.Cmd { return nil }

func (q *QuizScreen) Title() string { return layout.PlainText(q.session.Title) }

func (q *QuizScreen) Status() string {
	if q.engine.State() == engine.StateCompleted {
		return "done"
	}
	return fmt.Sprintf("Q %d/%d", q.engine.Index()+1, q.engine.Total())
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch q.engine.State() {
	case engine.StateAwaitingAdvance:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Abandon"},
		}
	case engine.StateCompleted:
		if q.status == saving {
			return []layout.KeyHint{{Key: "…", Description: "Saving result"}}
		}
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Enter", Description: "Done"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "A-D", Description: "Answer"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Abandon"},
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case attemptSavedMsg:
		return q.handleSaved(msg)
	case tea.KeyMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch q.engine.State() {
	case engine.StateInProgress:
		q.mc, _ = q.mc.Update(msg)
		if q.mc.Submitted {
			// Options come from the item itself, so the index is in range.
			_, _ = q.engine.Answer(q.mc.ChosenIndex)
		}
		return q, nil

	case engine.StateAwaitingAdvance:
		switch key {
		case "enter", "space", "right", "n":
			if q.engine.Advance() == engine.StateInProgress {
				q.resetChoice()
				return q, nil
			}
			return q, q.finish()
		}
		return q, nil

	case engine.StateCompleted:
		if q.status == saving {
			return q, nil
		}
		switch key {
		case "r":
			q.engine.Reset()
			q.completed = nil
			q.status = saveIdle
			q.saveErr = nil
			q.resetChoice()
			return q, nil
		case "enter", "q":
			return q, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return q, nil
}

// finish starts persisting the result the engine just produced.
func (q *QuizScreen) finish() tea.Cmd {
	r := q.completed
	if r == nil {
		return nil
	}
	if q.save == nil || q.userID == "" {
		q.status = saveSkipped
		return nil
	}

	q.status = saving
	attempt := r.Attempt(q.session.ID, q.userID)
	save := q.save
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		saved, err := save(ctx, attempt)
		return attemptSavedMsg{Attempt: saved, Err: err}
	}
}

func (q *QuizScreen) handleSaved(msg attemptSavedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		q.status = saveFailed
		q.saveErr = msg.Err
		return q, nil
	}
	q.status = saveDone
	return q, nil
}

func (q *QuizScreen) resetChoice() {
	item := q.engine.Current()
	options := make([]string, len(item.Options))
	for i, o := range item.Options {
		options[i] = layout.PlainText(o)
	}
	q.mc = components.NewMultiChoice(layout.PlainText(item.Question), options, item.CorrectAnswer, q.styles)
}

// Result returns the completed attempt's result, if any.
func (q *QuizScreen) Result() (engine.Result, bool) {
	return q.engine.Result()
}

// SaveError returns the error from the last save, if it failed.
func (q *QuizScreen) SaveError() error { return q.saveErr }

// Holding reports whether a save is still in flight. The screen cannot be
// left until it finishes.
func (q *QuizScreen) Holding() bool { return q.status == saving }

func (q *QuizScreen) View(width, height int) string {
	contentWidth := min(width-4, 90)
	var body string
	if q.engine.State() == engine.StateCompleted {
		body = q.renderResult(contentWidth)
	} else {
		body = q.renderQuestion(contentWidth)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (q *QuizScreen) renderQuestion(width int) string {
	var b strings.Builder

	done := q.engine.Index()
	if q.engine.State() == engine.StateAwaitingAdvance {
		done++
	}
	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", q.engine.Index()+1, q.engine.Total()),
		float64(done)/float64(q.engine.Total()), false, width, q.styles)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	item := q.engine.Current()
	if item.BloomLevel != "" {
		b.WriteString(q.styles.Hint.Render(layout.PlainText(item.BloomLevel)))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(q.mc.View()))

	if ans, ok := q.engine.LastAnswer(); ok {
		b.WriteString("\n")
		if ans.Correct {
			b.WriteString(q.styles.Correct.Render("Correct!"))
		} else {
			b.WriteString(q.styles.Incorrect.Render("Not quite."))
		}
		if item.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(q.styles.Body.Width(width).Render(layout.PlainText(item.Explanation)))
		}
		b.WriteString("\n\n")
		b.WriteString(q.styles.Hint.Render("Press Enter to continue"))
	}

	return b.String()
}

func (q *QuizScreen) renderResult(width int) string {
	r, _ := q.engine.Result()
	var b strings.Builder

	b.WriteString(q.styles.Title.Render("Quiz complete"))
	b.WriteString("\n\n")
	b.WriteString(q.styles.ScoreStyle(r.Percentage).Render(
		fmt.Sprintf("%d / %d  (%d%%)", r.Score, r.Total, r.Percentage)))
	b.WriteString("\n\n")

	for i, a := range r.Answers {
		mark := q.styles.Correct.Render("✓")
		if !a.Correct {
			mark = q.styles.Incorrect.Render("✗")
		}
		line := fmt.Sprintf("%2d. %s", i+1, layout.PlainText(a.Question))
		b.WriteString(mark + " " + q.styles.Body.Width(width-4).Render(line) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(q.renderSaveStatus())
	return b.String()
}

func (q *QuizScreen) renderSaveStatus() string {
	switch q.status {
	case saving:
		return q.styles.Hint.Render("Saving result…")
	case saveDone:
		return q.styles.Correct.Render("Result saved.")
	case saveFailed:
		return q.styles.Incorrect.Render(fmt.Sprintf("Could not save result: %v", q.saveErr))
	case saveSkipped:
		return q.styles.Hint.Render("Not saved. Log in to keep your history.")
	}
	return ""
}
