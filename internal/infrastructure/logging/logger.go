// Package logging provides structured logging utilities.
//
// Logs are written as compact bracketed lines with colors when attached to
// a terminal:
// [LEVEL] [scope] [HH:MM:SS] message key=value
package logging

import (
	"log/slog"
	"os"

	"rentdesk-backend/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(NewConsoleHandler(os.Stdout, opts))
}

// NewLoggerWithScope creates a logger with a scope prefix (e.g., "api",
// "charges"). Useful for separating subsystem output in the daily batch.
func NewLoggerWithScope(cfg config.LoggingConfig, scope string) *slog.Logger {
	return NewLogger(cfg).With("scope", scope)
}
