// Package study holds the domain types shared by the analysis pipeline,
// the quiz engine and the persistence client.
package study

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Study package cardinalities.
const (
	QuizLength  = 10
	MinConcepts = 5
	MaxConcepts = 10
	OptionCount = 4
	TitleMaxLen = 60
)

// Concept is one glossary entry.
type Concept struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// QuizItem is a single multiple-choice question.
type QuizItem struct {
	Question      string   `json:"question"`
	BloomLevel    string   `json:"bloomLevel,omitempty"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Validate checks the item has exactly OptionCount options and that
// CorrectAnswer indexes one of them.
func (q QuizItem) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question is empty")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(q.Options))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("correctAnswer %d out of range [0,%d)", q.CorrectAnswer, len(q.Options))
	}
	return nil
}

// Package is the validated output of one analysis run.
type Package struct {
	Summary     string     `json:"summary"`
	KeyConcepts []Concept  `json:"keyConcepts"`
	Quiz        []QuizItem `json:"quiz"`
}

// Validate enforces the package cardinalities and every quiz item.
func (p Package) Validate() error {
	if strings.TrimSpace(p.Summary) == "" {
		return fmt.Errorf("summary is empty")
	}
	if len(p.KeyConcepts) < MinConcepts {
		return fmt.Errorf("expected at least %d key concepts, got %d", MinConcepts, len(p.KeyConcepts))
	}
	for i, c := range p.KeyConcepts {
		if strings.TrimSpace(c.Term) == "" || strings.TrimSpace(c.Definition) == "" {
			return fmt.Errorf("key concept %d: term and definition are required", i)
		}
	}
	if len(p.Quiz) != QuizLength {
		return fmt.Errorf("expected %d quiz items, got %d", QuizLength, len(p.Quiz))
	}
	for i, q := range p.Quiz {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("quiz item %d: %w", i, err)
		}
	}
	return nil
}

// Session is a persisted Package plus ownership and title metadata.
type Session struct {
	ID        string
	OwnerID   string
	Title     string
	InputText string
	CreatedAt time.Time
	Package
}

// Answer records the learner's choice for one quiz item.
type Answer struct {
	Question      string `json:"question"`
	SelectedIndex int    `json:"selectedIndex"`
	CorrectIndex  int    `json:"correctIndex"`
	Correct       bool   `json:"correct"`
}

// Attempt is one completed quiz run.
type Attempt struct {
	ID         string
	SessionID  string
	UserID     string
	Score      int
	Total      int
	Percentage int
	Answers    []Answer
	CreatedAt  time.Time

	// Session is populated only when the attempt was fetched with its
	// owning session expanded.
	Session *Session
}

// Validate checks the attempt's internal consistency: one answer per
// question, score equal to the correct count, and a matching percentage.
func (a Attempt) Validate() error {
	if a.Total <= 0 {
		return fmt.Errorf("total must be positive, got %d", a.Total)
	}
	if len(a.Answers) != a.Total {
		return fmt.Errorf("expected %d answers, got %d", a.Total, len(a.Answers))
	}
	correct := 0
	for _, ans := range a.Answers {
		if ans.Correct {
			correct++
		}
	}
	if a.Score != correct {
		return fmt.Errorf("score %d does not match %d correct answers", a.Score, correct)
	}
	if want := Percentage(a.Score, a.Total); a.Percentage != want {
		return fmt.Errorf("percentage %d, want %d", a.Percentage, want)
	}
	return nil
}

// Percentage returns round(100*score/total). total must be positive.
func Percentage(score, total int) int {
	return int(math.Round(100 * float64(score) / float64(total)))
}

// User is an authenticated account.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
	Theme Theme  `json:"theme" yaml:"theme"`
}

// Theme is the user's display preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts "dark" or "light", case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// Toggle returns the opposite theme. Anything but light toggles to light.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// DeriveTitle builds a session title from the first sentence of the
// summary, truncated to TitleMaxLen characters.
func DeriveTitle(summary string) string {
	s := strings.Join(strings.Fields(summary), " ")
	if i := sentenceEnd(s); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(strings.TrimRight(s, ".!?"))
	if s == "" {
		return "Untitled"
	}
	if utf8.RuneCountInString(s) > TitleMaxLen {
		r := []rune(s)
		s = strings.TrimSpace(string(r[:TitleMaxLen]))
	}
	return s
}

var abbreviations = map[string]bool{
	"approx.": true, "cf.": true, "dr.": true, "etc.": true,
	"mr.": true, "mrs.": true, "ms.": true, "st.": true, "vs.": true,
}

// sentenceEnd returns the index of the first sentence terminator in s, or
// -1. A terminator only counts when followed by a space or the end of s, so
// "3.14" does not split, and a period closing an abbreviation is skipped.
// s must already have its whitespace collapsed to single spaces.
func sentenceEnd(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(s) && s[i+1] != ' ' {
			continue
		}
		if c == '.' && isAbbreviation(s[strings.LastIndexByte(s[:i], ' ')+1:i+1]) {
			continue
		}
		return i
	}
	return -1
}

// isAbbreviation reports whether word, which ends in a period, is "e.g."
// style (a period inside the word) or a known short form such as "etc.".
func isAbbreviation(word string) bool {
	if strings.Contains(word[:len(word)-1], ".") {
		return true
	}
	return abbreviations[strings.ToLower(word)]
}
