package analysis

import (
	"strings"
	"unicode/utf8"
)

// Minimum trimmed text lengths, in characters. The pipeline enforces its
// own floor even when a caller already checked the stricter submit floor.
const (
	PipelineMinLength = 50
	SubmitMinLength   = 100
)

// TextValidator rejects input that is blank or shorter than MinLength
// after trimming.
type TextValidator struct {
	MinLength int
}

// Validate returns the trimmed text, or a *TooShortError.
func (v TextValidator) Validate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)
	if n == 0 || n < v.MinLength {
		return "", &TooShortError{Length: n, Min: v.MinLength}
	}
	return trimmed, nil
}
