// Package logger builds the process logger.
package logger

import (
	"log/slog"
	"os"
)

// New returns a structured stdout logger. Level defaults to info; set
// LOG_LEVEL=debug for verbose poll/dispatch logging.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
