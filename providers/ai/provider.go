package ai

import (
	"context"
	"net/http"
)

// Provider is the core interface that every LLM provider implementation must
// satisfy. It covers the full lifecycle of a single request: authentication,
// endpoint configuration, message dispatch, and response interpretation.
type Provider interface {
	// Name returns the short provider identifier used in logs and spans
	// (e.g. "ollama", "openai", "anthropic").
	Name() string

	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails,
	// the context is cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}

// Completer is the text-completion boundary: it turns a prompt into raw
// model text. It is the only point of I/O seen by the resolve loop.
//
// Implementations must be safe for concurrent use when shared between
// concurrent resolutions.
type Completer interface {
	Complete(ctx context.Context, prompt string, model string) (string, error)
}

// CompleterFunc adapts an ordinary function to the [Completer] interface.
type CompleterFunc func(ctx context.Context, prompt string, model string) (string, error)

// Complete calls f(ctx, prompt, model).
func (f CompleterFunc) Complete(ctx context.Context, prompt string, model string) (string, error) {
	return f(ctx, prompt, model)
}
