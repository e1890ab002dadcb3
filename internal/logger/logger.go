// Package logger builds the process logger from configuration.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/dlovans/isorecord/internal/config"
)

// New creates a *slog.Logger writing to w based on cfg and sets it as the default logger.
//
// Format "json" produces structured JSON output. Any other format produces
// human-readable text. Level is one of debug, info, warn, error
// (case-insensitive) and defaults to info.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
