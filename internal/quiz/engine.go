// Package quiz runs a single attempt over a study package's quiz and
// aggregates the attempts already recorded for a session.
package quiz

import (
	"errors"
	"fmt"

	"github.com/abhisek/smartstudy/internal/study"
)

var (
	ErrEmptyQuiz     = errors.New("quiz has no questions")
	ErrInvalidOption = errors.New("option out of range")
	ErrCompleted     = errors.New("quiz already completed")
)

// State is the engine's position in an attempt.
type State int

const (
	StateInProgress     State = iota // Waiting for an answer to the current question
	StateAwaitingAdvance             // Current question answered, feedback showing
	StateCompleted                   // Every question answered
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in-progress"
	case StateAwaitingAdvance:
		return "awaiting-advance"
	case StateCompleted:
		return "completed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of a completed attempt, computed locally before
// anything is persisted.
type Result struct {
	Score      int
	Total      int
	Percentage int
	Answers    []study.Answer
}

// Attempt converts the result into a record ready to persist.
func (r Result) Attempt(sessionID, userID string) study.Attempt {
	return study.Attempt{
		SessionID:  sessionID,
		UserID:     userID,
		Score:      r.Score,
		Total:      r.Total,
		Percentage: r.Percentage,
		Answers:    append([]study.Answer(nil), r.Answers...),
	}
}

// Engine is the per-attempt state machine. It is not safe for concurrent
// use; one UI context drives it.
type Engine struct {
	items      []study.QuizItem
	state      State
	index      int
	answers    []study.Answer
	result     *Result
	onComplete func(Result)
}

// Option configures an Engine.
type Option func(*Engine)

// WithOnComplete registers fn to receive the result exactly once each time
// an attempt reaches StateCompleted.
func WithOnComplete(fn func(Result)) Option {
	return func(e *Engine) { e.onComplete = fn }
}

// NewEngine starts an attempt over items. Items must be non-empty and
// individually valid.
func NewEngine(items []study.QuizItem, opts ...Option) (*Engine, error) {
	if len(items) == 0 {
		return nil, ErrEmptyQuiz
	}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("quiz item %d: %w", i, err)
		}
	}

	e := &Engine{items: append([]study.QuizItem(nil), items...)}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e, nil
}

// Answer records option for the current question and moves to
// StateAwaitingAdvance. Repeating it for an answered question is a no-op
// that returns the recorded answer.
func (e *Engine) Answer(option int) (study.Answer, error) {
	switch e.state {
	case StateCompleted:
		return study.Answer{}, ErrCompleted
	case StateAwaitingAdvance:
		return e.answers[e.index], nil
	}

	item := e.items[e.index]
	if option < 0 || option >= len(item.Options) {
		return study.Answer{}, fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}

	ans := study.Answer{
		Question:      item.Question,
		SelectedIndex: option,
		CorrectIndex:  item.CorrectAnswer,
		Correct:       option == item.CorrectAnswer,
	}
	e.answers = append(e.answers, ans)
	e.state = StateAwaitingAdvance
	return ans, nil
}

// Advance moves past an answered question. It returns the new state and
// does nothing outside StateAwaitingAdvance.
func (e *Engine) Advance() State {
	if e.state != StateAwaitingAdvance {
		return e.state
	}

	if e.index+1 < len(e.items) {
		e.index++
		e.state = StateInProgress
		return e.state
	}

	e.state = StateCompleted
	e.complete()
	return e.state
}

func (e *Engine) complete() {
	score := 0
	for _, a := range e.answers {
		if a.Correct {
			score++
		}
	}
	total := len(e.answers)
	r := Result{
		Score:      score,
		Total:      total,
		Percentage: study.Percentage(score, total),
		Answers:    append([]study.Answer(nil), e.answers...),
	}
	e.result = &r

	if e.onComplete != nil {
		e.onComplete(r)
	}
}

// Reset discards the in-progress attempt and starts over. Results already
// handed to the completion callback are unaffected.
func (e *Engine) Reset() {
	e.state = StateInProgress
	e.index = 0
	e.answers = make([]study.Answer, 0, len(e.items))
	e.result = nil
}

func (e *Engine) State() State { return e.state }

// Index is the zero-based position of the current question.
func (e *Engine) Index() int { return e.index }

func (e *Engine) Total() int { return len(e.items) }

// Current returns the question being asked or last answered.
func (e *Engine) Current() study.QuizItem { return e.items[e.index] }

// LastAnswer returns the answer to the current question, if recorded.
func (e *Engine) LastAnswer() (study.Answer, bool) {
	if e.state == StateInProgress {
		return study.Answer{}, false
	}
	return e.answers[len(e.answers)-1], true
}

// Answers returns a copy of the answers recorded so far.
func (e *Engine) Answers() []study.Answer {
	return append([]study.Answer(nil), e.answers...)
}

// Result returns the attempt result once the engine is completed.
func (e *Engine) Result() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}
