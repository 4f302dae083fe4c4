// Package ollama implements [ai.Provider] for a local Ollama server using its
// native /api/chat endpoint (non-streaming).
//
// [New] reads OLLAMA_HOST (default http://localhost:11434). Ollama needs no
// API key; one set with [OllamaProvider.WithAPIKey] is sent as a Bearer token
// for deployments behind an authenticating proxy.
package ollama
