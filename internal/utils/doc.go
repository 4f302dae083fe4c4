// Package utils provides shared low-level helpers: [DoPostSync] for JSON
// round-trips with provider APIs, string helpers for log-safe rendering, [Ptr]
// and a small elapsed-time [Timer].
package utils
