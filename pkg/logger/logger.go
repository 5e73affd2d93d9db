package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "livechat-history-viewer"

// New creates a zerolog logger from LOG_LEVEL / LOG_FORMAT / ENV
func New() zerolog.Logger {
	format := os.Getenv("LOG_FORMAT")
	if os.Getenv("ENV") == "development" {
		format = "pretty"
	}
	return NewWithOptions(os.Stdout, os.Getenv("LOG_LEVEL"), format)
}

// NewWithOptions creates a logger writing to out at the given level.
// format "pretty" selects the console writer, anything else emits JSON.
func NewWithOptions(out io.Writer, level, format string) zerolog.Logger {
	// Configure zerolog
	zerolog.TimeFieldFormat = time.RFC3339

	logLevel := ParseLevel(level)

	// Use pretty console output in development
	if format == "pretty" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(logLevel).
			With().
			Timestamp().
			Caller().
			Str("service", serviceName).
			Logger()
	}

	// JSON output for production
	return zerolog.New(out).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
