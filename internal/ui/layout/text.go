package layout

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// PlainText makes model-produced text safe to print to a terminal: escape
// sequences and control characters other than newline and tab are removed.
// Everything else, including angle brackets, is left as written.
func PlainText(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
