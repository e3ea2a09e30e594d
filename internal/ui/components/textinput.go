package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label.
type TextInput struct {
	Label  string
	Model  textinput.Model
	Styles theme.Styles
}

// NewTextInput creates a focused text input. Secret inputs echo bullets.
func NewTextInput(label, placeholder string, secret bool, styles theme.Styles) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 256
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()

	return TextInput{Label: label, Model: ti, Styles: styles}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Update forwards messages to the underlying model.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label above the input.
func (t TextInput) View() string {
	label := t.Styles.Dim.Render(t.Label)
	if t.Model.Focused() {
		label = t.Styles.Selected.Render(t.Label)
	}
	return label + "\n" + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}
