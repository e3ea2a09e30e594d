package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/smartstudy/internal/llm"
)

// GenerationConfig holds the fixed generation parameters sent with every
// analysis request.
type GenerationConfig struct {
	ResponseFormat  llm.ResponseFormat
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration // 0 disables the per-call deadline
}

// DefaultGenerationConfig returns the production parameters.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		ResponseFormat:  llm.FormatJSON,
		Temperature:     0.7,
		MaxOutputTokens: 8192,
		Timeout:         2 * time.Minute,
	}
}

// Validate checks the parameters are usable.
func (c GenerationConfig) Validate() error {
	if c.ResponseFormat != llm.FormatJSON {
		return fmt.Errorf("response format must be %q, got %q", llm.FormatJSON, c.ResponseFormat)
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature %.2f out of range [0,1]", c.Temperature)
	}
	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("max output tokens must be positive, got %d", c.MaxOutputTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// Client issues exactly one upstream request per Analyze call.
type Client struct {
	provider llm.Provider
	cfg      GenerationConfig
}

// NewClient creates a Client over provider.
func NewClient(provider llm.Provider, cfg GenerationConfig) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("analysis client: provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analysis client: %w", err)
	}
	return &Client{provider: provider, cfg: cfg}, nil
}

// Analyze sends req and returns the model's raw text. Every failure,
// including cancellation, is an *UpstreamError.
func (c *Client) Analyze(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &UpstreamError{Message: err.Error(), Err: err}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.provider.Generate(llm.WithPurpose(ctx, llm.PurposeAnalysis), llm.Request{
		System:      req.SystemInstruction,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: req.UserContent}},
		Format:      c.cfg.ResponseFormat,
		MaxTokens:   c.cfg.MaxOutputTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", upstreamError(ctx, err)
	}
	return resp.Text, nil
}

func upstreamError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	msg := err.Error()
	var rl *llm.ErrRateLimit
	var unavail *llm.ErrProviderUnavailable
	switch {
	case errors.As(err, &rl):
		msg = "rate limited by the analysis service"
		if rl.Err != nil {
			msg += ": " + rl.Err.Error()
		}
	case errors.As(err, &unavail) && unavail.Err != nil:
		msg = unavail.Err.Error()
	}
	return &UpstreamError{Message: msg, Err: err}
}
