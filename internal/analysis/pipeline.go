// Package analysis turns raw study text into a validated study.Package:
// validate, build the prompt, call the model once, normalize the reply.
package analysis

import (
	"context"
	"time"

	"github.com/abhisek/smartstudy/internal/logger"
	"github.com/abhisek/smartstudy/internal/study"
)

// Analyzer runs the analysis pipeline. It is safe for concurrent use.
type Analyzer struct {
	validator  TextValidator
	submit     TextValidator
	prompts    PromptBuilder
	client     *Client
	normalizer *Normalizer
	guard      *Guard
	log        *logger.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

// WithGuard shares a Guard between analyzers.
func WithGuard(g *Guard) Option {
	return func(a *Analyzer) { a.guard = g }
}

// NewAnalyzer creates an Analyzer over client.
func NewAnalyzer(client *Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		validator:  TextValidator{MinLength: PipelineMinLength},
		submit:     TextValidator{MinLength: SubmitMinLength},
		client:     client,
		normalizer: NewNormalizer(),
		guard:      NewGuard(),
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeText validates text, calls the model once and normalizes the
// reply. It returns a *TooShortError, *UpstreamError or
// *MalformedResponseError on failure and never a partial package.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (*study.Package, error) {
	trimmed, err := a.validator.Validate(text)
	if err != nil {
		return nil, err
	}

	req := a.prompts.Build(trimmed)
	start := time.Now()

	raw, err := a.client.Analyze(ctx, req)
	if err != nil {
		a.log.Warn("analysis request failed", "instruction", req.InstructionVersion, "error", err)
		return nil, err
	}

	pkg, err := a.normalizer.Normalize(raw)
	if err != nil {
		a.log.Warn("analysis response rejected", "instruction", req.InstructionVersion, "cause", Cause(err), "raw_len", len(raw))
		return nil, err
	}

	a.log.Info("analysis complete",
		"instruction", req.InstructionVersion,
		"text_len", len(trimmed),
		"concepts", len(pkg.KeyConcepts),
		"quiz", len(pkg.Quiz),
		"elapsed", time.Since(start),
	)
	return pkg, nil
}

// Submit is the front-end entry point. It applies the submit floor, then
// rejects with a *BusyError while another analysis for key is in flight.
func (a *Analyzer) Submit(ctx context.Context, key, text string) (*study.Package, error) {
	if _, err := a.submit.Validate(text); err != nil {
		return nil, err
	}

	release, err := a.guard.Acquire(key)
	if err != nil {
		return nil, err
	}
	defer release()

	return a.AnalyzeText(ctx, text)
}
