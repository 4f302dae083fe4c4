package middleware

import "errors"

// ErrRetryExhausted is returned by the retry middleware when every attempt
// failed with a retryable error. The last provider error is wrapped too, so
// both errors.Is(err, ErrRetryExhausted) and inspection of the cause work.
var ErrRetryExhausted = errors.New("structguard: all retry attempts exhausted")
