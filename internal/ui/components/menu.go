package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/smartstudy/internal/ui/theme"
)

// MenuItem is one selectable row.
type MenuItem struct {
	Label    string
	Detail   string // dimmed text after the label
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
	Styles   theme.Styles
}

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem, styles theme.Styles) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{Items: items, Selected: selected, Styles: styles}
}

// Update handles keyboard navigation. Enter runs the selected item's Action.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		var line string
		switch {
		case i == m.Selected:
			line = m.Styles.Selected.Render("  ▸ " + item.Label)
		case item.Disabled:
			line = m.Styles.Dim.Render("    " + item.Label)
		default:
			line = m.Styles.Unselected.Render("    " + item.Label)
		}
		if item.Detail != "" {
			line += "  " + m.Styles.Dim.Render(item.Detail)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
