// Package middleware provides the built-in [client.Middleware] implementations.
//
//   - [NewRetryMiddleware]: retries transient provider failures (HTTP 429 and
//     5xx, network timeouts) with exponential backoff and jitter.
//   - [NewTimeoutMiddleware]: bounds each provider call with a deadline.
//   - [NewLoggingMiddleware]: emits slog entries around every provider call.
//
// These operate below the resolve loop: a retried HTTP call is still a single
// resolve attempt. Only when the middleware gives up does the resolve loop see
// a service fault.
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(60*time.Second),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 2}),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first, so the request above travels
// Timeout → Retry → Logging → Provider.
package middleware
