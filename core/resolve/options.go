package resolve

import (
	"github.com/leofalp/structguard/providers/observability"
)

const (
	// DefaultMaxAttempts is the attempt budget used when none is configured.
	DefaultMaxAttempts = 3

	// DefaultModel is the model identifier passed to the completer when none
	// is configured.
	DefaultModel = "llama3.2"
)

// Attempt describes one completed attempt. It is handed to the hook set with
// [WithAttemptHook] and is not retained by the resolver.
type Attempt struct {
	// Number is 1-based.
	Number int
	// Prompt is the exact text sent to the completer.
	Prompt string
	// Raw is the completer's response, empty on a service fault.
	Raw string
	// Repaired reports whether the payload only parsed after local repair.
	Repaired bool
	// Err is nil on success, otherwise a *ParseError, *ValidationError or
	// *ServiceError.
	Err error
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	maxAttempts int
	model       string
	repair      bool
	observer    observability.Provider
	onAttempt   func(Attempt)
}

func defaultOptions() options {
	return options{
		maxAttempts: DefaultMaxAttempts,
		model:       DefaultModel,
		observer:    observability.Nop(),
	}
}

// WithMaxAttempts sets the attempt budget. Values lower than 1 make every
// resolution fail with [ErrInvalidMaxAttempts].
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = n
	}
}

// WithModel sets the model identifier passed to the completer.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithRepair enables local JSON repair before a payload is reported as
// malformed. Disabled by default, so every malformed payload costs an attempt.
func WithRepair(enabled bool) Option {
	return func(o *options) {
		o.repair = enabled
	}
}

// WithObserver enables spans, metrics and logs for every resolution. A nil
// observer is ignored.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithAttemptHook registers fn to be called synchronously after every
// attempt, successful or not.
func WithAttemptHook(fn func(Attempt)) Option {
	return func(o *options) {
		o.onAttempt = fn
	}
}
