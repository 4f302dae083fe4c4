package resolve

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/leofalp/structguard/core/extract"
	"github.com/leofalp/structguard/core/parse"
	"github.com/leofalp/structguard/core/schema"
	"github.com/leofalp/structguard/internal/utils"
	"github.com/leofalp/structguard/providers/ai"
	"github.com/leofalp/structguard/providers/observability"
)

// Attempt outcomes recorded on spans and metrics.
const (
	outcomeOK              = "ok"
	outcomeParseError      = "parse_error"
	outcomeValidationError = "validation_error"
	outcomeServiceFault    = "service_fault"
	outcomeExhausted       = "exhausted"
)

// responsePreviewLength caps the raw response echoed in logs.
const responsePreviewLength = 200

// Resolver turns prompts into validated values of type T. It holds no
// per-resolution state and is safe for concurrent use.
type Resolver[T any] struct {
	completer  ai.Completer
	descriptor schema.Descriptor[T]
	opts       options
}

// New creates a reusable Resolver.
func New[T any](completer ai.Completer, descriptor schema.Descriptor[T], opts ...Option) *Resolver[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Resolver[T]{
		completer:  completer,
		descriptor: descriptor,
		opts:       o,
	}
}

// Resolve is a shorthand for New(completer, descriptor, opts...).Resolve(ctx, prompt).
func Resolve[T any](
	ctx context.Context,
	completer ai.Completer,
	prompt string,
	descriptor schema.Descriptor[T],
	opts ...Option,
) (T, error) {
	return New(completer, descriptor, opts...).Resolve(ctx, prompt)
}

// MaxAttempts returns the configured attempt budget.
func (r *Resolver[T]) MaxAttempts() int {
	return r.opts.maxAttempts
}

// Model returns the model identifier passed to the completer.
func (r *Resolver[T]) Model() string {
	return r.opts.model
}

// Resolve runs the retry loop for prompt.
//
// Each attempt sends the current prompt to the completer, extracts the JSON
// payload from the response, parses it and validates it. The first valid
// value is returned immediately. After a failed attempt the next prompt is
// the original prompt plus a corrective suffix quoting the failure verbatim.
//
// The returned error is a *ServiceError when the completer fails or ctx is
// done, and an *ExhaustedError when the budget runs out.
func (r *Resolver[T]) Resolve(ctx context.Context, prompt string) (T, error) {
	var zero T

	if r.completer == nil {
		return zero, ErrNilCompleter
	}
	if r.descriptor == nil {
		return zero, ErrNilDescriptor
	}
	if r.opts.maxAttempts < 1 {
		return zero, ErrInvalidMaxAttempts
	}

	observer := r.opts.observer
	schemaName := r.descriptor.Name()
	resolveID := uuid.NewString()

	ctx, span := observer.StartSpan(ctx, observability.SpanResolve,
		observability.String(observability.AttrResolveID, resolveID),
		observability.String(observability.AttrResolveSchema, schemaName),
		observability.Int(observability.AttrResolveMaxAttempts, r.opts.maxAttempts),
		observability.String(observability.AttrLLMModel, r.opts.model),
	)
	defer span.End()

	timer := utils.NewTimer()
	defer func() {
		timer.Stop()
		observer.Histogram(observability.MetricResolveDuration).Record(ctx,
			float64(timer.GetDuration().Milliseconds()),
			observability.String(observability.AttrResolveSchema, schemaName),
		)
	}()

	state := NewPromptState(prompt)
	var lastErr error

	for attempt := 1; attempt <= r.opts.maxAttempts; attempt++ {
		current := state.Prompt()

		raw, err := r.complete(ctx, current)
		observer.Counter(observability.MetricResolveAttempts).Add(ctx, 1,
			observability.String(observability.AttrResolveSchema, schemaName),
		)

		if err != nil {
			serviceErr := &ServiceError{Attempt: attempt, Err: err}
			r.notify(Attempt{Number: attempt, Prompt: current, Err: serviceErr})
			r.fail(ctx, span, resolveID, schemaName, outcomeServiceFault, attempt, serviceErr)
			return zero, serviceErr
		}

		value, repaired, attemptErr := r.interpret(raw)
		r.notify(Attempt{Number: attempt, Prompt: current, Raw: raw, Repaired: repaired, Err: attemptErr})

		span.AddEvent(observability.EventResolveAttempt,
			observability.Int(observability.AttrResolveAttempt, attempt),
			observability.String(observability.AttrResolveOutcome, outcome(attemptErr)),
			observability.Bool(observability.AttrResolveRepaired, repaired),
			observability.Int(observability.AttrResolvePromptLength, len(current)),
			observability.Int(observability.AttrResolveResponseLength, len(raw)),
		)

		if attemptErr == nil {
			span.SetAttributes(observability.Int(observability.AttrResolveAttempt, attempt))
			span.SetStatus(observability.StatusOK, "resolved")
			observer.Info(ctx, "resolved",
				observability.String(observability.AttrResolveID, resolveID),
				observability.String(observability.AttrResolveSchema, schemaName),
				observability.Int(observability.AttrResolveAttempt, attempt),
				observability.Bool(observability.AttrResolveRepaired, repaired),
			)
			return value, nil
		}

		observer.Warn(ctx, "invalid response",
			observability.String(observability.AttrResolveID, resolveID),
			observability.Int(observability.AttrResolveAttempt, attempt),
			observability.Int(observability.AttrResolveMaxAttempts, r.opts.maxAttempts),
			observability.String(observability.AttrResolveOutcome, outcome(attemptErr)),
			observability.Error(attemptErr),
		)
		observer.Debug(ctx, "raw response",
			observability.String(observability.AttrResolveID, resolveID),
			observability.String(observability.AttrResolveResponse, utils.TruncateString(raw, responsePreviewLength)),
		)

		lastErr = attemptErr
		state = state.WithError(attemptErr)
	}

	exhausted := &ExhaustedError{Attempts: r.opts.maxAttempts, LastError: lastErr}
	r.fail(ctx, span, resolveID, schemaName, outcomeExhausted, r.opts.maxAttempts, exhausted)
	return zero, exhausted
}

// complete calls the completer unless ctx is already done.
func (r *Resolver[T]) complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.completer.Complete(ctx, prompt, r.opts.model)
}

// interpret runs extract, parse and validate on one raw response.
func (r *Resolver[T]) interpret(raw string) (T, bool, error) {
	var zero T

	payload := extract.JSON(raw)

	var (
		tree     any
		repaired bool
		err      error
	)
	if r.opts.repair {
		tree, repaired, err = parse.Lenient(payload)
	} else {
		tree, err = parse.Tree(payload)
	}
	if err != nil {
		return zero, false, &ParseError{Err: err}
	}

	value, diags := r.descriptor.Validate(tree)
	if !diags.OK() {
		return zero, repaired, &ValidationError{Schema: r.descriptor.Name(), Diagnostics: diags}
	}

	return value, repaired, nil
}

func (r *Resolver[T]) notify(attempt Attempt) {
	if r.opts.onAttempt != nil {
		r.opts.onAttempt(attempt)
	}
}

func (r *Resolver[T]) fail(
	ctx context.Context,
	span observability.Span,
	resolveID, schemaName, result string,
	attempts int,
	err error,
) {
	observer := r.opts.observer

	span.RecordError(err)
	span.SetAttributes(observability.Int(observability.AttrResolveAttempt, attempts))
	span.SetStatus(observability.StatusError, result)

	observer.Counter(observability.MetricResolveFailures).Add(ctx, 1,
		observability.String(observability.AttrResolveSchema, schemaName),
		observability.String(observability.AttrResolveOutcome, result),
	)
	observer.Error(ctx, "resolution failed",
		observability.String(observability.AttrResolveID, resolveID),
		observability.String(observability.AttrResolveSchema, schemaName),
		observability.Int(observability.AttrResolveAttempt, attempts),
		observability.Error(err),
	)
}

func outcome(err error) string {
	var (
		parseErr      *ParseError
		validationErr *ValidationError
	)
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &parseErr):
		return outcomeParseError
	case errors.As(err, &validationErr):
		return outcomeValidationError
	default:
		return outcomeServiceFault
	}
}
