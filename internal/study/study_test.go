package study

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePackage() Package {
	p := Package{Summary: "Photosynthesis converts light into chemical energy. It happens in chloroplasts."}
	for i := 0; i < MinConcepts; i++ {
		p.KeyConcepts = append(p.KeyConcepts, Concept{
			Term:       fmt.Sprintf("term %d", i),
			Definition: "a definition",
		})
	}
	p.KeyConcepts[0].Example = "leaves"
	for i := 0; i < QuizLength; i++ {
		p.Quiz = append(p.Quiz, QuizItem{
			Question:      fmt.Sprintf("question %d?", i),
			BloomLevel:    "Comprehension",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % OptionCount,
			Explanation:   "because",
		})
	}
	return p
}

func TestPackageValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Package)
		wantErr string
	}{
		{"valid", func(p *Package) {}, ""},
		{"blank summary", func(p *Package) { p.Summary = "  " }, "summary"},
		{"too few concepts", func(p *Package) { p.KeyConcepts = p.KeyConcepts[:4] }, "key concepts"},
		{"concept missing term", func(p *Package) { p.KeyConcepts[2].Term = "" }, "key concept 2"},
		{"nine questions", func(p *Package) { p.Quiz = p.Quiz[:9] }, "quiz items"},
		{"three options", func(p *Package) { p.Quiz[3].Options = p.Quiz[3].Options[:3] }, "quiz item 3"},
		{"answer out of range", func(p *Package) { p.Quiz[5].CorrectAnswer = 4 }, "out of range"},
		{"negative answer", func(p *Package) { p.Quiz[5].CorrectAnswer = -1 }, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := samplePackage()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	p := samplePackage()

	concepts, err := EncodeConcepts(p.KeyConcepts)
	require.NoError(t, err)
	quiz, err := EncodeQuiz(p.Quiz)
	require.NoError(t, err)

	assert.Contains(t, quiz, `"correctAnswer"`)
	assert.Contains(t, concepts, `"example":"leaves"`)

	gotConcepts, err := DecodeConcepts(concepts)
	require.NoError(t, err)
	gotQuiz, err := DecodeQuiz(quiz)
	require.NoError(t, err)

	got := Package{Summary: p.Summary, KeyConcepts: gotConcepts, Quiz: gotQuiz}
	assert.Equal(t, p, got)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeQuiz("{not json")
	assert.Error(t, err)

	answers, err := DecodeAnswers("")
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 90, Percentage(9, 10))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 0, Percentage(0, 10))
	assert.Equal(t, 100, Percentage(7, 7))
}

func TestAttemptValidate(t *testing.T) {
	answers := []Answer{
		{Question: "q1", SelectedIndex: 0, CorrectIndex: 0, Correct: true},
		{Question: "q2", SelectedIndex: 1, CorrectIndex: 2, Correct: false},
	}
	ok := Attempt{Score: 1, Total: 2, Percentage: 50, Answers: answers}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Score = 2
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Percentage = 51
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Total = 3
	assert.Error(t, bad.Validate())

	assert.Error(t, Attempt{}.Validate())
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		summary string
		want    string
	}{
		{"Cells divide by mitosis. Then they grow.", "Cells divide by mitosis"},
		{"  Is energy conserved?  Yes.", "Is energy conserved"},
		{"", "Untitled"},
		{"...", "Untitled"},
		{"No terminal punctuation here", "No terminal punctuation here"},
		{"Multi\nline   summary. Rest", "Multi line summary"},
		{strings.Repeat("x", 80) + ".", strings.Repeat("x", TitleMaxLen)},
		{strings.Repeat("è", 70), strings.Repeat("è", TitleMaxLen)},
		{"Pi is 3.14 and rising. Next.", "Pi is 3.14 and rising"},
		{"Use tools, e.g. hammers, to build. More.", "Use tools, e.g. hammers, to build"},
		{"Ions, i.e. charged atoms, move! Fast.", "Ions, i.e. charged atoms, move"},
		{"Nature vs. nurture shapes traits. Next", "Nature vs. nurture shapes traits"},
		{"Release 2.0!", "Release 2.0"},
		{"Wait... what?", "Wait... what"},
	}
	for _, tt := range tests {
		got := DeriveTitle(tt.summary)
		if got != tt.want {
			t.Errorf("DeriveTitle(%q) = %q, want %q", tt.summary, got, tt.want)
		}
	}
}

func TestTheme(t *testing.T) {
	th, err := ParseTheme(" Light ")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, th)
	assert.Equal(t, ThemeDark, th.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())

	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}
