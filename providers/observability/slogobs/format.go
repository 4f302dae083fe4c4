package slogobs

import (
	"log/slog"
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatText is slog's logfmt-style key=value output (default).
	FormatText Format = "text"

	// FormatJSON emits one JSON object per record, for log aggregation.
	FormatJSON Format = "json"
)

// LevelTrace sits below DEBUG and is only emitted when explicitly enabled.
const LevelTrace = slog.LevelDebug - 4

// ParseFormat parses a format string. Unknown values map to FormatText.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// ParseLevel parses a level name (TRACE, DEBUG, INFO, WARN, ERROR).
// Unknown values map to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetFormatFromEnv checks STRUCTGUARD_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	return ParseFormat(firstEnv("STRUCTGUARD_LOG_FORMAT", "LOG_FORMAT"))
}

// GetLogLevelFromEnv checks STRUCTGUARD_LOG_LEVEL, then LOG_LEVEL.
func GetLogLevelFromEnv() slog.Level {
	return ParseLevel(firstEnv("STRUCTGUARD_LOG_LEVEL", "LOG_LEVEL"))
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func (f Format) String() string {
	return string(f)
}
