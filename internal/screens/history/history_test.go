package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

func attempt(pct int, correct ...bool) study.Attempt {
	answers := make([]study.Answer, len(correct))
	score := 0
	for i, c := range correct {
		answers[i] = study.Answer{Question: "Which organelle makes ATP?", Correct: c}
		if c {
			score++
		}
	}
	return study.Attempt{
		Score: score, Total: len(correct), Percentage: pct,
		Answers: answers, CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func newLoaded(t *testing.T, attempts []study.Attempt, err error) *HistoryScreen {
	t.Helper()
	var gotID string
	h := New(
		study.Session{ID: "s1", Title: "Cells"},
		func(_ context.Context, id string) ([]study.Attempt, error) {
			gotID = id
			return attempts, err
		},
		theme.NewStyles(theme.Dark),
	)
	if !strings.Contains(h.View(100, 30), "Loading") {
		t.Error("expected loading state before attempts arrive")
	}
	h.Update(h.Init()())
	if gotID != "s1" {
		t.Errorf("loaded attempts for %q, want s1", gotID)
	}
	return h
}

func TestHistoryShowsAggregate(t *testing.T) {
	h := newLoaded(t, []study.Attempt{
		attempt(80, true, true, true, true, false),
		attempt(60, true, true, true, false, false),
		attempt(100, true, true, true, true, true),
	}, nil)

	view := h.View(100, 30)
	if !strings.Contains(view, "3 attempts · mean 80% · best 100%") {
		t.Errorf("aggregate line missing:\n%s", view)
	}
	if h.Status() != "3 attempts" {
		t.Errorf("Status = %q", h.Status())
	}
}

func TestHistoryExpandsSelectedAttempt(t *testing.T) {
	h := newLoaded(t, []study.Attempt{
		attempt(100, true),
		attempt(0, false),
	}, nil)

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if strings.Contains(h.View(100, 30), "✗") {
		t.Fatal("answers shown before expanding")
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := h.View(100, 30)
	if !strings.Contains(view, "✗") || !strings.Contains(view, "Which organelle makes ATP?") {
		t.Errorf("expanded attempt should list its answers:\n%s", view)
	}
	if !h.expanded[1] || h.expanded[0] {
		t.Errorf("expanded = %v, want only the second attempt", h.expanded)
	}
}

func TestHistoryEmptyAndError(t *testing.T) {
	h := newLoaded(t, nil, nil)
	if !strings.Contains(h.View(100, 30), "No attempts yet") {
		t.Errorf("expected empty state:\n%s", h.View(100, 30))
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(h.expanded) != 0 {
		t.Error("enter on an empty list should do nothing")
	}

	h = newLoaded(t, nil, errors.New("token expired"))
	if !strings.Contains(h.View(100, 30), "token expired") {
		t.Errorf("expected load error:\n%s", h.View(100, 30))
	}
}
