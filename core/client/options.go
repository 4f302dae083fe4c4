package client

import (
	"github.com/leofalp/structguard/internal/utils"
	"github.com/leofalp/structguard/providers/ai"
	"github.com/leofalp/structguard/providers/observability"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	defaultModel   string
	systemPrompt   string
	generation     *ai.GenerationConfig
	responseFormat *ai.ResponseFormat
	observer       observability.Provider
	middlewares    []Middleware
}

// WithDefaultModel sets the model used when a request leaves Model empty.
func WithDefaultModel(model string) Option {
	return func(o *options) {
		o.defaultModel = model
	}
}

// WithSystemPrompt sets a system prompt sent with every request.
func WithSystemPrompt(prompt string) Option {
	return func(o *options) {
		o.systemPrompt = prompt
	}
}

// WithTemperature sets the sampling temperature. 0 is a valid value.
func WithTemperature(temperature float32) Option {
	return func(o *options) {
		o.generationConfig().Temperature = utils.Ptr(temperature)
	}
}

// WithMaxTokens caps the response length.
func WithMaxTokens(maxTokens int) Option {
	return func(o *options) {
		o.generationConfig().MaxTokens = maxTokens
	}
}

// WithResponseFormat asks the provider to constrain output, e.g. to JSON or
// to a JSON schema. Providers that cannot honour it ignore it.
func WithResponseFormat(format *ai.ResponseFormat) Option {
	return func(o *options) {
		o.responseFormat = format
	}
}

// WithObserver enables tracing, metrics and logs for every request.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithMiddleware appends middlewares to the chain, in order.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

func (o *options) generationConfig() *ai.GenerationConfig {
	if o.generation == nil {
		o.generation = &ai.GenerationConfig{}
	}
	return o.generation
}
