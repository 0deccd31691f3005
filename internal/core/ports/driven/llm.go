// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"
	"time"
)

// LLMGateway routes language-model calls for schema extraction and analogy
// explanation. Every call measures its own latency so pipeline traces stay
// accurate regardless of the provider.
//
// Implementations may include:
//   - OpenAI (chat completions)
//   - Anthropic (messages API)
//   - OpenAI-compatible gateways (custom BaseURL)
type LLMGateway interface {
	// Complete produces a completion for the request. Transient transport
	// errors are retried once inside the adapter; anything returned here is
	// permanent from the pipeline's point of view.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionRequest describes one gateway call.
type CompletionRequest struct {
	// System is the optional system prompt.
	System string

	// Prompt is the user prompt.
	Prompt string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// Completion is the result of a gateway call.
type Completion struct {
	// Text is the raw model output.
	Text string

	// Latency is the measured round-trip duration.
	Latency time.Duration
}
