// Package login is the credential form used by the login and register
// commands when credentials are not passed as flags.
package login

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartstudy/internal/screen"
	"github.com/abhisek/smartstudy/internal/ui/components"
	"github.com/abhisek/smartstudy/internal/ui/layout"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// Mode selects the form's fields.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Credentials is the submitted form.
type Credentials struct {
	Email    string
	Password string
	Name     string
}

// SubmitFunc performs the login or registration.
type SubmitFunc func(ctx context.Context, c Credentials) error

type submittedMsg struct {
	Err error
}

const submitTimeout = 30 * time.Second

// LoginScreen implements screen.Screen.
type LoginScreen struct {
	mode       Mode
	submit     SubmitFunc
	styles     theme.Styles
	inputs     []components.TextInput
	focus      int
	submitting bool
	done       bool
	err        error
	validation string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the form. email pre-fills the email field.
func New(mode Mode, email string, submit SubmitFunc, styles theme.Styles) *LoginScreen {
	l := &LoginScreen{mode: mode, submit: submit, styles: styles}

	emailIn := components.NewTextInput("Email", "you@example.com", false, styles)
	emailIn.SetValue(email)
	l.inputs = append(l.inputs, emailIn)
	if mode == ModeRegister {
		l.inputs = append(l.inputs, components.NewTextInput("Name", "optional", false, styles))
	}
	l.inputs = append(l.inputs, components.NewTextInput("Password", "", true, styles))

	if email != "" && len(l.inputs) > 1 {
		l.focus = 1
	}
	for i := range l.inputs {
		if i != l.focus {
			l.inputs[i].Blur()
		}
	}
	return l
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.inputs[l.focus].Focus()
}

func (l *LoginScreen) Title() string {
	if l.mode == ModeRegister {
		return "Create account"
	}
	return "Log in"
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// Done reports whether the submission succeeded.
func (l *LoginScreen) Done() bool { return l.done }

// Err returns the last submission error.
func (l *LoginScreen) Err() error { return l.err }

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		l.submitting = false
		l.err = msg.Err
		if msg.Err == nil {
			l.done = true
			return l, tea.Quit
		}
		return l, nil

	case tea.KeyMsg:
		if l.submitting {
			return l, nil
		}
		switch msg.String() {
		case "tab", "down":
			return l, l.moveFocus(1)
		case "shift+tab", "up":
			return l, l.moveFocus(-1)
		case "enter":
			if l.focus < len(l.inputs)-1 {
				return l, l.moveFocus(1)
			}
			return l, l.startSubmit()
		}
	}

	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return l, cmd
}

func (l *LoginScreen) moveFocus(delta int) tea.Cmd {
	l.inputs[l.focus].Blur()
	l.focus = (l.focus + delta + len(l.inputs)) % len(l.inputs)
	return l.inputs[l.focus].Focus()
}

func (l *LoginScreen) credentials() Credentials {
	c := Credentials{
		Email:    strings.TrimSpace(l.inputs[0].Value()),
		Password: l.inputs[len(l.inputs)-1].Value(),
	}
	if l.mode == ModeRegister {
		c.Name = strings.TrimSpace(l.inputs[1].Value())
	}
	return c
}

func (l *LoginScreen) startSubmit() tea.Cmd {
	c := l.credentials()
	if c.Email == "" || c.Password == "" {
		l.validation = "Email and password are required."
		return nil
	}
	l.validation = ""
	l.err = nil
	l.submitting = true

	submit := l.submit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		return submittedMsg{Err: submit(ctx, c)}
	}
}

func (l *LoginScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(l.styles.Title.Render(l.Title()))
	b.WriteString("\n\n")
	for _, in := range l.inputs {
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	switch {
	case l.submitting:
		b.WriteString(l.styles.Hint.Render("Contacting server…"))
	case l.validation != "":
		b.WriteString(l.styles.Warning.Render(l.validation))
	case l.err != nil:
		b.WriteString(l.styles.Incorrect.Render(l.err.Error()))
	}

	card := l.styles.Card.Width(min(width-4, 60)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
