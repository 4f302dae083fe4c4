package resolve

import (
	"errors"
	"fmt"

	"github.com/leofalp/structguard/core/schema"
)

var (
	// ErrServiceFault is matched by every error raised by the completer.
	ErrServiceFault = errors.New("structguard: completion service fault")

	// ErrAttemptsExhausted is matched when no attempt produced a valid payload.
	ErrAttemptsExhausted = errors.New("structguard: attempts exhausted")

	// ErrInvalidMaxAttempts is returned before any completion when the attempt
	// budget is lower than 1.
	ErrInvalidMaxAttempts = errors.New("structguard: max attempts must be at least 1")

	// ErrNilCompleter is returned when Resolve is called without a completer.
	ErrNilCompleter = errors.New("structguard: completer must not be nil")

	// ErrNilDescriptor is returned when Resolve is called without a descriptor.
	ErrNilDescriptor = errors.New("structguard: schema descriptor must not be nil")
)

// ParseError reports that the extracted payload was not well-formed JSON.
// Its message is what the model sees on the next attempt.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "JSON decode error: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports that a well-formed payload did not match the
// schema. Diagnostics lists every failing field.
type ValidationError struct {
	Schema      string
	Diagnostics schema.Diagnostics
}

func (e *ValidationError) Error() string {
	return "Schema validation error: " + e.Diagnostics.Report(e.Schema)
}

// ServiceError wraps a failure of the completer on the given attempt.
type ServiceError struct {
	Attempt int
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("completion failed on attempt %d: %v", e.Attempt, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrServiceFault
}

// ExhaustedError is returned when all attempts produced invalid payloads.
// Attempts always equals the configured budget and LastError is the
// diagnostic of the final attempt.
type ExhaustedError struct {
	Attempts  int
	LastError error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts. Last error: %v", e.Attempts, e.LastError)
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastError
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrAttemptsExhausted
}
