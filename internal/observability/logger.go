package observability

import (
	"io"
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/unit-converter/internal/config"
)

// NewLogger builds the service logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// NewCLILogger builds a text logger for the command-line tool. Stdout carries
// command output, so diagnostics go to w. Names slog does not recognise
// leave the level at warn.
func NewCLILogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelWarn
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(level)); err == nil {
		lvl = parsed
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
