package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	engine "github.com/abhisek/smartstudy/internal/quiz"
	"github.com/abhisek/smartstudy/internal/router"
	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// testSession has ten questions whose correct answer is always B.
func testSession() study.Session {
	items := make([]study.QuizItem, study.QuizLength)
	for i := range items {
		items[i] = study.QuizItem{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"w", "x", "y", "z"},
			CorrectAnswer: 1,
			Explanation:   "B is right.",
		}
	}
	return study.Session{ID: "s1", Title: "Cells", Package: study.Package{Quiz: items}}
}

type recordingSaver struct {
	calls []study.Attempt
	err   error
}

func (r *recordingSaver) save(_ context.Context, a study.Attempt) (study.Attempt, error) {
	r.calls = append(r.calls, a)
	if r.err != nil {
		return study.Attempt{}, r.err
	}
	a.ID = "r1"
	return a, nil
}

func newScreen(t *testing.T, saver *recordingSaver) *QuizScreen {
	t.Helper()
	var save SaveFunc
	if saver != nil {
		save = saver.save
	}
	q, err := New(testSession(), "u1", save, theme.NewStyles(theme.Dark))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return q
}

// answer presses key then enter to advance, returning the advance command.
func answer(q *QuizScreen, key rune) tea.Cmd {
	q.Update(keyPress(key))
	_, cmd := q.Update(specialKey(tea.KeyEnter))
	return cmd
}

func TestNineOfTenSavesOnceAfterFinalAdvance(t *testing.T) {
	saver := &recordingSaver{}
	q := newScreen(t, saver)

	for i := 0; i < 9; i++ {
		if cmd := answer(q, 'b'); cmd != nil {
			t.Fatalf("question %d: unexpected command before completion", i+1)
		}
	}
	q.Update(keyPress('a'))
	if len(saver.calls) != 0 {
		t.Fatal("saved before the final advance")
	}

	_, cmd := q.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("final advance should return a save command")
	}
	msg := cmd()
	if len(saver.calls) != 1 {
		t.Fatalf("save called %d times, want 1", len(saver.calls))
	}

	got := saver.calls[0]
	if got.Score != 9 || got.Total != 10 || got.Percentage != 90 || len(got.Answers) != 10 {
		t.Errorf("attempt = %d/%d %d%% (%d answers), want 9/10 90%% (10)", got.Score, got.Total, got.Percentage, len(got.Answers))
	}
	if got.SessionID != "s1" || got.UserID != "u1" {
		t.Errorf("attempt owner = %s/%s", got.SessionID, got.UserID)
	}

	view := q.View(100, 40)
	if !strings.Contains(view, "9 / 10") || !strings.Contains(view, "Saving") {
		t.Errorf("score and saving status should show before the save completes:\n%s", view)
	}

	q.Update(msg)
	if !strings.Contains(q.View(100, 40), "Result saved") {
		t.Error("expected saved status after attemptSavedMsg")
	}
}

func TestSaveFailureKeepsScore(t *testing.T) {
	saver := &recordingSaver{err: errors.New("backend down")}
	q := newScreen(t, saver)

	var cmd tea.Cmd
	for i := 0; i < 10; i++ {
		cmd = answer(q, 'b')
	}
	q.Update(cmd())

	view := q.View(100, 40)
	if !strings.Contains(view, "10 / 10") {
		t.Errorf("score missing after failed save:\n%s", view)
	}
	if !strings.Contains(view, "backend down") {
		t.Errorf("save error missing:\n%s", view)
	}
	if q.SaveError() == nil {
		t.Error("SaveError() = nil, want error")
	}
}

func TestRepeatedAnswerKeysAreIgnored(t *testing.T) {
	q := newScreen(t, nil)

	q.Update(keyPress('a'))
	q.Update(keyPress('b'))
	q.Update(keyPress('c'))

	ans, ok := q.engine.LastAnswer()
	if !ok || ans.SelectedIndex != 0 {
		t.Fatalf("LastAnswer = %+v, %v; want first choice kept", ans, ok)
	}
	if q.engine.State() != engine.StateAwaitingAdvance {
		t.Errorf("state = %v, want awaiting-advance", q.engine.State())
	}
}

func TestNoSaverSkipsPersistence(t *testing.T) {
	q := newScreen(t, nil)

	var cmd tea.Cmd
	for i := 0; i < 10; i++ {
		cmd = answer(q, 'b')
	}
	if cmd != nil {
		t.Error("expected no save command without a saver")
	}
	if r, ok := q.Result(); !ok || r.Score != 10 {
		t.Errorf("Result = %+v, %v", r, ok)
	}
	if !strings.Contains(q.View(100, 40), "Not saved") {
		t.Error("expected not-saved notice")
	}
}

func TestRetryStartsNewAttempt(t *testing.T) {
	saver := &recordingSaver{}
	q := newScreen(t, saver)

	var cmd tea.Cmd
	for i := 0; i < 10; i++ {
		cmd = answer(q, 'a')
	}
	q.Update(cmd())

	q.Update(keyPress('r'))
	if q.engine.State() != engine.StateInProgress || q.engine.Index() != 0 {
		t.Fatalf("after retry: state=%v index=%d", q.engine.State(), q.engine.Index())
	}

	for i := 0; i < 10; i++ {
		cmd = answer(q, 'b')
	}
	cmd()
	if len(saver.calls) != 2 {
		t.Fatalf("save called %d times, want 2", len(saver.calls))
	}
	if saver.calls[1].Score != 10 {
		t.Errorf("second attempt score = %d, want 10", saver.calls[1].Score)
	}
}

func TestDoneReturnsToPreviousScreen(t *testing.T) {
	q := newScreen(t, nil)
	for i := 0; i < 10; i++ {
		answer(q, 'b')
	}

	_, cmd := q.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestCannotLeaveWhileSaving(t *testing.T) {
	saver := &recordingSaver{}
	q := newScreen(t, saver)

	var saveCmd tea.Cmd
	for i := 0; i < 10; i++ {
		saveCmd = answer(q, 'b')
	}
	if saveCmd == nil {
		t.Fatal("expected a save command")
	}
	if !q.Holding() {
		t.Fatal("screen should hold while the save is in flight")
	}

	for _, k := range []tea.KeyPressMsg{specialKey(tea.KeyEnter), keyPress('q'), keyPress('r')} {
		if _, cmd := q.Update(k); cmd != nil {
			t.Errorf("key %q while saving returned a command", k.String())
		}
	}
	if q.engine.State() != engine.StateCompleted {
		t.Fatalf("state = %v, want completed", q.engine.State())
	}

	// The result is still delivered to this screen and saved once.
	q.Update(saveCmd())
	if len(saver.calls) != 1 {
		t.Fatalf("save called %d times, want 1", len(saver.calls))
	}
	if q.Holding() {
		t.Error("still holding after the save finished")
	}

	_, cmd := q.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a pop command once saved")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestRouterKeepsQuizWhileSaving(t *testing.T) {
	q := newScreen(t, &recordingSaver{})
	var saveCmd tea.Cmd
	for i := 0; i < 10; i++ {
		saveCmd = answer(q, 'b')
	}

	r := router.New(q)
	if cmd := r.Pop(); cmd != nil {
		t.Error("popping a saving quiz should not quit")
	}
	if r.Active() != q {
		t.Fatal("quiz screen was removed while saving")
	}

	r.Update(saveCmd())
	if cmd := r.Pop(); cmd == nil {
		t.Error("expected quit once the save finished")
	}
}

func TestStatusAndHints(t *testing.T) {
	q := newScreen(t, nil)
	if q.Status() != "Q 1/10" {
		t.Errorf("Status = %q", q.Status())
	}
	answer(q, 'b')
	if q.Status() != "Q 2/10" {
		t.Errorf("Status = %q after one question", q.Status())
	}
	if len(q.KeyHints()) == 0 {
		t.Error("expected key hints")
	}
}

func TestEmptyQuizRejected(t *testing.T) {
	_, err := New(study.Session{ID: "s1"}, "u1", nil, theme.NewStyles(theme.Dark))
	if !errors.Is(err, engine.ErrEmptyQuiz) {
		t.Errorf("err = %v, want ErrEmptyQuiz", err)
	}
}
