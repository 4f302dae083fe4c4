package client

import (
	"context"

	"github.com/leofalp/structguard/providers/ai"
)

// SendFunc sends a chat request to the LLM provider and returns the completed
// response. It is the unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware intercepts and optionally transforms send requests and
// responses. Middlewares are applied outermost-first: the first middleware in
// the slice is the first to see an incoming request.
type Middleware func(next SendFunc) SendFunc

// buildSendChain wraps provider.SendMessage with middlewares, applied in
// reverse so that middlewares[0] is the outermost wrapper.
func buildSendChain(provider ai.Provider, middlewares []Middleware) SendFunc {
	var chain SendFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}

	return chain
}
