package llm

import (
	"context"
)

// Provider is the core abstraction over a generative text service.
// Implementations issue exactly one upstream request per Generate call.
type Provider interface {
	// Generate sends a prompt to the model and returns its raw text output.
	// When req.Format is FormatJSON the provider switches the model into its
	// native JSON-only response mode. When req.Schema is set the provider
	// additionally asks for schema-constrained output and validates it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// ResponseFormat selects the response mode requested from the model.
type ResponseFormat string

const (
	FormatText ResponseFormat = "text"
	FormatJSON ResponseFormat = "json"
)

// Request describes what to send to the model.
type Request struct {
	// System is the system instruction. Sets the model's role and output contract.
	System string

	// Messages is the conversation. Study analysis always sends one user message.
	Messages []Message

	// Format selects text or JSON-only output. Empty means FormatText.
	Format ResponseFormat

	// Schema, when set, is passed to the provider's structured output
	// mechanism and the response is validated against it.
	Schema *Schema

	// MaxTokens bounds the size of the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema and keys the compiled-schema cache.
	// Kebab-case, e.g. "study-package".
	Name string

	// Description is a human-readable description of what this schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Text is the raw generated text. It is not guaranteed to be bare JSON
	// even in JSON mode; callers normalize it.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
