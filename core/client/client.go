package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/structguard/core/overview"
	"github.com/leofalp/structguard/providers/ai"
	"github.com/leofalp/structguard/providers/observability"
)

var (
	// ErrNilProvider is returned by New when no provider is given.
	ErrNilProvider = errors.New("client: provider is nil")

	// ErrNilMiddleware is returned by New when a nil middleware is registered.
	ErrNilMiddleware = errors.New("client: middleware is nil")
)

// Client sends prompts to a provider through a middleware chain. A Client is
// immutable after New and safe for concurrent use as long as the provider is.
type Client struct {
	provider       ai.Provider
	defaultModel   string
	systemPrompt   string
	generation     *ai.GenerationConfig
	responseFormat *ai.ResponseFormat
	observer       observability.Provider
	send           SendFunc
}

var _ ai.Completer = (*Client)(nil)

// New builds a Client around provider.
//
//	c, err := client.New(ollama.New(),
//	    client.WithDefaultModel("llama3.2"),
//	    client.WithTemperature(0.1),
//	    client.WithMiddleware(middleware.NewRetryMiddleware(middleware.RetryConfig{})),
//	)
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	for i, mw := range cfg.middlewares {
		if mw == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilMiddleware, i)
		}
	}

	middlewares := cfg.middlewares
	if cfg.observer != nil {
		// Outermost, so it observes the outcome after retries and timeouts.
		middlewares = append([]Middleware{NewObservabilityMiddleware(cfg.observer, cfg.defaultModel)}, middlewares...)
	}

	return &Client{
		provider:       provider,
		defaultModel:   cfg.defaultModel,
		systemPrompt:   cfg.systemPrompt,
		generation:     cfg.generation,
		responseFormat: cfg.responseFormat,
		observer:       cfg.observer,
		send:           buildSendChain(provider, middlewares),
	}, nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// DefaultModel returns the model used when a request does not name one.
func (c *Client) DefaultModel() string {
	return c.defaultModel
}

// SendMessage fills unset request fields from the client defaults and sends
// the request through the middleware chain. Successful responses are recorded
// in the [overview.Overview] bound to ctx, if any.
func (c *Client) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if request.Model == "" {
		request.Model = c.defaultModel
	}
	if request.SystemPrompt == "" {
		request.SystemPrompt = c.systemPrompt
	}
	if request.GenerationConfig == nil {
		request.GenerationConfig = c.generation
	}
	if request.ResponseFormat == nil {
		request.ResponseFormat = c.responseFormat
	}

	response, err := c.send(ctx, request)
	if err != nil {
		return nil, err
	}

	if ov := overview.FromContext(ctx); ov != nil {
		ov.AddResponse(response)
	}

	return response, nil
}

// Complete sends prompt as a single user message and returns the model text.
// An empty model falls back to the client default. When the model refuses and
// produces no content, the refusal text is returned as the completion so the
// caller can treat it like any other unusable output.
func (c *Client) Complete(ctx context.Context, prompt string, model string) (string, error) {
	response, err := c.SendMessage(ctx, ai.NewUserRequest(model, prompt))
	if err != nil {
		return "", err
	}

	if response.Content == "" && response.Refusal != "" {
		return response.Refusal, nil
	}

	return response.Content, nil
}
