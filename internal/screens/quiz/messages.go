package quiz

import "github.com/abhisek/smartstudy/internal/study"

// attemptSavedMsg reports the outcome of persisting a completed attempt.
type attemptSavedMsg struct {
	Attempt study.Attempt
	Err     error
}
