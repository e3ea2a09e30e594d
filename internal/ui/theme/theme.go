// Package theme holds the dark and light palettes and the styles built
// from them.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/smartstudy/internal/study"
)

// Palette is one colour scheme.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

var (
	Dark = Palette{
		Primary:   lipgloss.Color("#8B5CF6"), // Violet
		Secondary: lipgloss.Color("#14B8A6"), // Teal
		Accent:    lipgloss.Color("#F97316"), // Orange
		Success:   lipgloss.Color("#22C55E"),
		Error:     lipgloss.Color("#F43F5E"),
		Text:      lipgloss.Color("#F8FAFC"),
		TextDim:   lipgloss.Color("#94A3B8"),
		BgCard:    lipgloss.Color("#1E293B"),
		Border:    lipgloss.Color("#334155"),
	}

	Light = Palette{
		Primary:   lipgloss.Color("#6D28D9"),
		Secondary: lipgloss.Color("#0F766E"),
		Accent:    lipgloss.Color("#C2410C"),
		Success:   lipgloss.Color("#15803D"),
		Error:     lipgloss.Color("#BE123C"),
		Text:      lipgloss.Color("#0F172A"),
		TextDim:   lipgloss.Color("#475569"),
		BgCard:    lipgloss.Color("#F1F5F9"),
		Border:    lipgloss.Color("#CBD5E1"),
	}
)

// For returns the palette for a user theme. Unknown themes get Dark.
func For(t study.Theme) Palette {
	if t == study.ThemeLight {
		return Light
	}
	return Dark
}

// Styles are the rendered styles shared by screens and components.
type Styles struct {
	Palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
	Card     lipgloss.Style

	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Dim        lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
	Warning    lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	Bar            lipgloss.Style
}

// NewStyles builds Styles from p.
func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.TextDim),
		Body: lipgloss.NewStyle().
			Foreground(p.Text),
		Hint: lipgloss.NewStyle().
			Foreground(p.TextDim).
			Italic(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),

		Selected: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(p.Text),
		Dim: lipgloss.NewStyle().
			Foreground(p.TextDim),
		Correct: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),
		Incorrect: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(p.Accent),

		ProgressFilled: lipgloss.NewStyle().
			Background(p.Secondary),
		ProgressEmpty: lipgloss.NewStyle().
			Background(p.Border),
		Bar: lipgloss.NewStyle().
			Background(p.BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
	}
}

// StylesFor is NewStyles(For(t)).
func StylesFor(t study.Theme) Styles {
	return NewStyles(For(t))
}

// ScoreStyle colours a percentage: success from 80, accent from 50,
// error below.
func (s Styles) ScoreStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 80:
		return s.Correct
	case pct >= 50:
		return s.Warning.Bold(true)
	}
	return s.Incorrect
}
