package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a structured logger. Production-like environments log JSON,
// everything else logs human-readable text.
func New(level, environment string) *slog.Logger {
	return newWithWriter(os.Stdout, level, environment)
}

func newWithWriter(w io.Writer, level, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	switch environment {
	case "production", "stage":
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
