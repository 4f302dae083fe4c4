// Package openai implements [ai.Provider] for OpenAI-compatible
// /v1/chat/completions endpoints (OpenAI, Azure OpenAI, OpenRouter, vLLM,
// LM Studio and Ollama's compatibility layer).
//
// [New] reads OPENAI_API_KEY and OPENAI_API_BASE_URL from the environment.
// Use [OpenAIProvider.WithAPIKey] and [OpenAIProvider.WithBaseURL] to override
// them programmatically.
package openai
