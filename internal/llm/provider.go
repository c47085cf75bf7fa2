package llm

import "context"

// Provider is the core abstraction for the external text-generation service.
// Every consumer treats a call as fallible and slow: errors are caught at the
// call site and answered with local fallback logic, never surfaced to the
// end user.
type Provider interface {
	// Complete sends a prompt to the model and returns its raw text output.
	// The text is NOT guaranteed to be valid JSON even when the prompt asks
	// for it; callers extract and validate the shape they expect.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Prompt is the user message. Single-turn generation is the only mode
	// Intervue uses.
	Prompt string

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Response holds the model's output.
type Response struct {
	// Text is the raw text the model produced.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
