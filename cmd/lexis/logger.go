package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/hellenike/lexis/pkg/config"
)

// newLogger builds a *slog.Logger from LogConfig and installs it as the
// default. Format "json" is for piping into log collectors; "text" is
// the human default for interactive runs. Output goes to stderr so the
// result stream on stdout stays clean.
func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
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
