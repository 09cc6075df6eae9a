package llm

import (
	"context"
	"time"
)

// Client is the core abstraction over the text-generation endpoint.
// Implementations are safe for concurrent use.
type Client interface {
	// Complete sends the request and returns the raw text plus usage
	// telemetry. The context deadline bounds the whole round trip.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this client is configured with.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int

	// JSONMode asks the provider to constrain output to a JSON object.
	JSONMode bool

	// WebSearch enables provider-side search augmentation where
	// supported (OpenRouter-style ":online" model variant).
	WebSearch bool
}

// Message is a single chat message.
type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model output and the telemetry a UsageRecord needs.
type Response struct {
	Text    string
	Usage   Usage
	Model   string
	Latency time.Duration
}

// Usage tracks token consumption for a single request. Cached counts the
// prompt tokens the provider reported as a cache hit; they are billed at the
// cached-input rate.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	CachedTokens     int
}
