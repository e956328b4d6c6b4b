package providers

import "context"

// Provider issues chat-completion calls against an upstream LLM API.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider's identifier for logs and metrics.
	Name() string

	// ChatCompletion performs a single completion call. No retries are
	// attempted; failures are returned as the typed errors in this package
	// and retry policy belongs to the caller.
	ChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}
