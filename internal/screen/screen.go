// Package screen defines the contract between the app shell and the
// screens it routes between.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartstudy/internal/ui/layout"
)

// Screen is one full-frame view.
type Screen interface {
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown centred in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen show short status text at the right of the
// header, e.g. quiz progress.
type StatusProvider interface {
	Status() string
}

// Holder lets a screen stay on top of the stack while it finishes work
// that must not be abandoned, such as saving a quiz result. The router
// ignores pops while Holding reports true.
type Holder interface {
	Holding() bool
}
