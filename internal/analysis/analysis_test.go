package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/smartstudy/internal/llm"
	"github.com/abhisek/smartstudy/internal/study"
)

// longText is comfortably above both length floors.
var longText = strings.Repeat("Mitochondria produce ATP through cellular respiration. ", 4)

func validPackageJSON(t *testing.T, mutate func(m map[string]any)) string {
	t.Helper()
	concepts := make([]any, 0, study.MinConcepts)
	for i := 0; i < study.MinConcepts; i++ {
		concepts = append(concepts, map[string]any{
			"term":       fmt.Sprintf("Term %d", i),
			"definition": "A definition long enough to be useful for a learner reviewing it.",
			"example":    "An example.",
		})
	}
	quiz := make([]any, 0, study.QuizLength)
	for i := 0; i < study.QuizLength; i++ {
		quiz = append(quiz, map[string]any{
			"question":      fmt.Sprintf("Question %d?", i),
			"bloomLevel":    "Analysis",
			"options":       []any{"A", "B", "C", "D"},
			"correctAnswer": i % 4,
			"explanation":   "Because.",
		})
	}
	m := map[string]any{
		"summary":     "Mitochondria are the powerhouse of the cell. They make ATP.",
		"keyConcepts": concepts,
		"quiz":        quiz,
	}
	if mutate != nil {
		mutate(m)
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return string(b)
}

func newTestAnalyzer(t *testing.T, responses ...llm.MockResponse) (*Analyzer, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	client, err := NewClient(mock, DefaultGenerationConfig())
	require.NoError(t, err)
	return NewAnalyzer(client), mock
}

func TestTextValidator(t *testing.T) {
	v := TextValidator{MinLength: PipelineMinLength}
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"49 chars", strings.Repeat("a", 49), true},
		{"50 chars", strings.Repeat("a", 50), false},
		{"padded 49 chars", "   " + strings.Repeat("a", 49) + "   ", true},
		{"50 multibyte runes", strings.Repeat("é", 50), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.in)
			if tt.wantErr {
				var short *TooShortError
				require.ErrorAs(t, err, &short)
				assert.ErrorIs(t, err, ErrTooShort)
				assert.Equal(t, PipelineMinLength, short.Min)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.in), got)
		})
	}
}

func TestPromptBuilder(t *testing.T) {
	var b PromptBuilder
	r1 := b.Build("first text")
	r2 := b.Build("second text")

	assert.Equal(t, r1.SystemInstruction, r2.SystemInstruction, "instruction must not depend on the text")
	assert.Equal(t, InstructionVersion, r1.InstructionVersion)
	assert.Equal(t, r1, b.Build("first text"), "build must be deterministic")
	assert.True(t, strings.HasSuffix(r1.UserContent, "---\nfirst text\n---"))
	assert.Contains(t, r1.SystemInstruction, "exactly 10 quiz questions")
	assert.Contains(t, r1.SystemInstruction, "between 5 and 10 key concepts")
	assert.NotContains(t, r1.SystemInstruction, "first text")
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  \n```JSON  \n{\"a\":1}\n```  \n", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
		{"```{\"a\":1}\n```", `{"a":1}`},
		{"```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := StripFence(tt.in); got != tt.want {
			t.Errorf("StripFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_FencedEqualsUnfenced(t *testing.T) {
	n := NewNormalizer()
	raw := validPackageJSON(t, nil)

	plain, err := n.Normalize(raw)
	require.NoError(t, err)
	fenced, err := n.Normalize("```json\n" + raw + "\n```")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
	assert.Len(t, plain.Quiz, study.QuizLength)
	assert.Len(t, plain.KeyConcepts, study.MinConcepts)
}

func TestNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCause string
	}{
		{"empty", "   ", "empty response"},
		{"not json", "Sure! Here is your analysis.", "not valid JSON"},
		{"array", "[1,2,3]", "not a JSON object"},
		{"missing summary", validPackageJSON(t, func(m map[string]any) { delete(m, "summary") }), "missing summary"},
		{"blank summary", validPackageJSON(t, func(m map[string]any) { m["summary"] = "  " }), "missing summary"},
		{"summary wrong type", validPackageJSON(t, func(m map[string]any) { m["summary"] = 42 }), "missing summary"},
		{"empty concepts", validPackageJSON(t, func(m map[string]any) { m["keyConcepts"] = []any{} }), "missing key concepts"},
		{"missing quiz", validPackageJSON(t, func(m map[string]any) { delete(m, "quiz") }), "missing quiz"},
		{"nine questions", validPackageJSON(t, func(m map[string]any) { m["quiz"] = m["quiz"].([]any)[:9] }), "structure"},
		{"four concepts", validPackageJSON(t, func(m map[string]any) { m["keyConcepts"] = m["keyConcepts"].([]any)[:4] }), "structure"},
		{"three options", validPackageJSON(t, func(m map[string]any) {
			m["quiz"].([]any)[2].(map[string]any)["options"] = []any{"A", "B", "C"}
		}), "structure"},
		{"answer out of range", validPackageJSON(t, func(m map[string]any) {
			m["quiz"].([]any)[7].(map[string]any)["correctAnswer"] = 4
		}), "structure"},
	}
	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := n.Normalize(tt.raw)
			assert.Nil(t, pkg)
			var m *MalformedResponseError
			require.ErrorAs(t, err, &m)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Contains(t, m.Cause, tt.wantCause)
			assert.Equal(t, tt.raw, m.Raw)
		})
	}
}

func TestNormalize_KeepsContentVerbatim(t *testing.T) {
	summary := "In Java, a List<String> holds strings; if a<b and b>c then order follows."
	options := []string{"List<String>", "List<Integer>", "Map<K,V>", "Set<T>"}
	raw := validPackageJSON(t, func(m map[string]any) {
		m["summary"] = summary
		q := m["quiz"].([]any)[0].(map[string]any)
		q["question"] = "Which type holds <b>text</b>?"
		q["options"] = []any{options[0], options[1], options[2], options[3]}
	})

	pkg, err := NewNormalizer().Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, summary, pkg.Summary)
	assert.Equal(t, "Which type holds <b>text</b>?", pkg.Quiz[0].Question)
	assert.Equal(t, options, pkg.Quiz[0].Options)
}

func TestGenerationConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultGenerationConfig().Validate())

	cfg := DefaultGenerationConfig()
	cfg.Temperature = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultGenerationConfig()
	cfg.ResponseFormat = llm.FormatText
	assert.Error(t, cfg.Validate())

	cfg = DefaultGenerationConfig()
	cfg.MaxOutputTokens = 0
	assert.Error(t, cfg.Validate())

	_, err := NewClient(nil, DefaultGenerationConfig())
	assert.Error(t, err)
}

func TestClient_SendsFixedParameters(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "raw"})
	client, err := NewClient(mock, DefaultGenerationConfig())
	require.NoError(t, err)

	req := PromptBuilder{}.Build("some text")
	got, err := client.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "raw", got)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, req.SystemInstruction, call.System)
	assert.Equal(t, llm.FormatJSON, call.Format)
	assert.Equal(t, 0.7, call.Temperature)
	assert.Equal(t, 8192, call.MaxTokens)
	require.Len(t, call.Messages, 1)
	assert.Equal(t, req.UserContent, call.Messages[0].Content)
}

func TestClient_UpstreamErrors(t *testing.T) {
	rootCause := errors.New("503 Service Unavailable: model overloaded")
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: rootCause}},
		llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("quota exceeded")}},
	)
	client, err := NewClient(mock, DefaultGenerationConfig())
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), Request{})
	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, rootCause)
	assert.Equal(t, rootCause.Error(), up.Message)

	_, err = client.Analyze(context.Background(), Request{})
	require.ErrorAs(t, err, &up)
	assert.Contains(t, up.Message, "quota exceeded")
	assert.Equal(t, 2, mock.CallCount(), "no internal retry")
}

func TestClient_CancelledContext(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "never"})
	client, err := NewClient(mock, DefaultGenerationConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Analyze(ctx, Request{})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mock.CallCount())
}

func TestAnalyzeText_TooShortMakesNoCall(t *testing.T) {
	a, mock := newTestAnalyzer(t)

	_, err := a.AnalyzeText(context.Background(), "too short")
	assert.ErrorIs(t, err, ErrTooShort)
	assert.Equal(t, 0, mock.CallCount())
}

func TestAnalyzeText_Success(t *testing.T) {
	a, mock := newTestAnalyzer(t, llm.MockResponse{Text: "```json\n" + validPackageJSON(t, nil) + "\n```"})

	pkg, err := a.AnalyzeText(context.Background(), "\n\n"+longText+"\n")
	require.NoError(t, err)
	assert.Len(t, pkg.Quiz, study.QuizLength)

	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "---\n"+strings.TrimSpace(longText)+"\n---")
}

func TestAnalyzeText_EachCallIsFresh(t *testing.T) {
	raw := validPackageJSON(t, nil)
	a, mock := newTestAnalyzer(t, llm.MockResponse{Text: raw}, llm.MockResponse{Text: raw})

	for i := 0; i < 2; i++ {
		_, err := a.AnalyzeText(context.Background(), longText)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, mock.CallCount())
}

func TestAnalyzeText_Malformed(t *testing.T) {
	a, _ := newTestAnalyzer(t, llm.MockResponse{Text: `{"summary":"only a summary"}`})

	pkg, err := a.AnalyzeText(context.Background(), longText)
	assert.Nil(t, pkg)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, "missing key concepts", Cause(err))
}

func TestSubmit_EnforcesSubmitFloor(t *testing.T) {
	a, mock := newTestAnalyzer(t)

	_, err := a.Submit(context.Background(), "k", strings.Repeat("x", 80))
	var short *TooShortError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, SubmitMinLength, short.Min)
	assert.Equal(t, 0, mock.CallCount())
}

// blockingProvider holds every Generate call until release is closed.
type blockingProvider struct {
	started chan struct{}
	release chan struct{}
	text    string
}

func (b *blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return &llm.Response{Text: b.text}, nil
	case <-ctx.Done():
		return nil, &llm.ErrProviderUnavailable{Err: ctx.Err()}
	}
}

func (b *blockingProvider) ModelID() string { return "blocking" }

func TestSubmit_BusyPerKey(t *testing.T) {
	bp := &blockingProvider{
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
		text:    validPackageJSON(t, nil),
	}
	client, err := NewClient(bp, DefaultGenerationConfig())
	require.NoError(t, err)
	a := NewAnalyzer(client)

	done := make(chan error, 2)
	go func() {
		_, err := a.Submit(context.Background(), "alice", longText)
		done <- err
	}()
	<-bp.started

	_, err = a.Submit(context.Background(), "alice", longText)
	assert.ErrorIs(t, err, ErrBusy)

	go func() {
		_, err := a.Submit(context.Background(), "bob", longText)
		done <- err
	}()
	<-bp.started

	close(bp.release)
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	assert.False(t, a.guard.Busy("alice"), "key must be released after completion")
}

func TestSubmit_CancelledCreatesNothing(t *testing.T) {
	bp := &blockingProvider{started: make(chan struct{}, 1), release: make(chan struct{})}
	client, err := NewClient(bp, DefaultGenerationConfig())
	require.NoError(t, err)
	a := NewAnalyzer(client)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		pkg, err := a.Submit(ctx, "k", longText)
		if pkg != nil {
			err = errors.New("expected no package")
		}
		errc <- err
	}()
	<-bp.started
	cancel()

	err = <-errc
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, a.guard.Busy("k"))
}

func TestGuard_ReleaseIsIdempotent(t *testing.T) {
	g := NewGuard()
	release, err := g.Acquire("k")
	require.NoError(t, err)

	_, err = g.Acquire("k")
	var busy *BusyError
	require.ErrorAs(t, err, &busy)
	assert.Equal(t, "k", busy.Key)

	release()
	release()

	release2, err := g.Acquire("k")
	require.NoError(t, err)
	release()
	assert.True(t, g.Busy("k"), "stale release must not free a new holder")
	release2()
	assert.False(t, g.Busy("k"))
}
