package cli

import (
	"io"
	"log/slog"
)

// newLogger writes text records to w: warnings and above by default, debug
// records too when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loggerOf returns the configured logger, or a discarding one when a
// subcommand runs without its root.
func loggerOf(opts *RootOptions) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
