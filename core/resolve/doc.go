// Package resolve implements the validating retry loop: it asks an
// [ai.Completer] for text, extracts and parses the JSON payload, validates it
// against a [schema.Descriptor] and, when any step fails, asks again with the
// verbatim diagnostic appended to the original prompt.
//
// Malformed payloads and schema mismatches are recoverable and never escape
// the loop. Only two failures reach the caller:
//
//   - [ServiceError] (matches [ErrServiceFault]) when the completer itself
//     fails; it is returned immediately, without further attempts.
//   - [ExhaustedError] (matches [ErrAttemptsExhausted]) when every attempt in
//     the budget produced an invalid payload.
//
// Basic usage:
//
//	answer, err := resolve.Resolve(ctx, llm, prompt, qa.Descriptor,
//	    resolve.WithMaxAttempts(3),
//	    resolve.WithModel("llama3.2"),
//	)
//
// Every call carries its own prompt state, so a single [Resolver] may be
// shared by concurrent goroutines as long as the completer is safe for
// concurrent use.
package resolve
