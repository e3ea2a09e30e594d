package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartstudy/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice is a multiple-choice selector. It accepts arrow/j/k
// navigation, a letter or digit to pick directly, and enter to confirm.
// Once submitted it ignores further input.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
	Styles       theme.Styles
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string, correctIndex int, styles theme.Styles) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
		Styles:       styles,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		m.choose(m.Selected)
	default:
		if i, ok := m.directIndex(key); ok {
			m.choose(i)
		}
	}

	return m, nil
}

func (m *MultiChoice) choose(i int) {
	m.Selected = i
	m.Submitted = true
	m.ChosenIndex = i
}

// directIndex maps "a".."d" and "1".."4" to option indexes.
func (m MultiChoice) directIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var i int
	switch {
	case c >= '1' && c <= '9':
		i = int(c - '1')
	case c >= 'a' && c <= 'z':
		i = int(c - 'a')
	default:
		return 0, false
	}
	// j and k are navigation, handled before this is reached.
	return i, i < len(m.Options)
}

// View renders the question and its options. After submission the correct
// option is green and a wrong choice red.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(m.Styles.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := fmt.Sprint(i + 1)
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			line = m.Styles.Correct.Render(line + "  ✓")
		case m.Submitted && i == m.ChosenIndex:
			line = m.Styles.Incorrect.Render(line + "  ✗")
		case m.Submitted:
			line = m.Styles.Dim.Render(line)
		case i == m.Selected:
			line = m.Styles.Selected.Render(line)
		default:
			line = m.Styles.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
