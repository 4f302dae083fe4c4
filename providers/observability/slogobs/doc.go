// Package slogobs provides an observability.Provider implementation backed by
// log/slog. Spans and metrics are reported as structured log records; counter
// totals are also kept in memory so callers (and tests) can read them back.
//
// The main entry point is [New]. Output format and level default to the
// STRUCTGUARD_LOG_FORMAT and STRUCTGUARD_LOG_LEVEL environment variables, with
// LOG_FORMAT and LOG_LEVEL as fallbacks.
package slogobs
