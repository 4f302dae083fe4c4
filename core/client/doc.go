// Package client sits between a raw [ai.Provider] and the resolve loop. A
// [Client] applies request defaults (model, system prompt, sampling, response
// format), threads every call through a middleware chain and exposes the
// result as an [ai.Completer].
//
// The primary entry point is [New]. Retry, timeout and logging middlewares
// live in the middleware subpackage; observability is wired automatically by
// [WithObserver].
package client
