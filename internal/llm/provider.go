// Package llm talks to hosted language models. Every vendor adapter returns
// schema-checked JSON behind the same Provider interface, and the factory
// stacks retry and request logging on top.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response per call.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider was configured with.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, selects the vendor's structured output mode.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default in place.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is who authored a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document. Name doubles as the cache key for
// the compiled validator, so two different definitions must not share one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is the model output with its accounting.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // the model that actually served the call
	StopReason string
}

// Usage is token consumption for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// completion is what a vendor adapter pulls out of its SDK response.
type completion struct {
	text  string
	usage Usage
	model string
	stop  string
}

// finish turns a completion into a Response. A schema request that ran out
// of tokens is reported as truncated rather than as a validation failure.
func finish(req Request, c completion) (*Response, error) {
	content := json.RawMessage(c.text)
	if req.Schema != nil && c.stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	if c.usage.TotalTokens == 0 {
		c.usage.TotalTokens = c.usage.InputTokens + c.usage.OutputTokens
	}
	if c.stop == "" {
		c.stop = StopEnd
	}
	return &Response{
		Content:    content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: c.stop,
	}, nil
}

type purposeKey struct{}

// WithPurpose tags ctx with what the request is for. The label is stored
// with each logged request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
