// Package ai defines the shared, provider-agnostic types and interfaces used
// across the LLM provider implementations (Ollama, OpenAI-compatible,
// Anthropic). Each provider's conversion layer maps these types to its own
// wire format, keeping the rest of the codebase decoupled from
// provider-specific details.
//
// Two interfaces matter. [Provider] is the chat-level contract implemented
// by every backend: a [ChatRequest] goes in, a [ChatResponse] comes out.
// [Completer] is the much narrower text-completion boundary consumed by the
// resolve loop: a prompt and a model identifier go in, raw text comes out.
// core/client bridges the two.
package ai
