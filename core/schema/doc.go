// Package schema defines the boundary between the resolve loop and the
// concrete record types it produces.
//
// A [Descriptor] validates a generic tree (as produced by parse.Tree) and
// materialises a typed value from it, or reports field-level
// [Diagnostics]. Descriptors are written per record type, without runtime
// type introspection; the [Checker] helper keeps such hand-written
// validators short and their diagnostics uniform.
//
// Descriptors may additionally implement [Documented] to expose a
// [JSONSchema] that can be shown to the model or forwarded to providers that
// support constrained output.
package schema
