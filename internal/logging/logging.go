// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Options selects the level and output format of the logger.
type Options struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// Format is "text", "json" or "auto" (text on a terminal, JSON otherwise).
	Format string
	// AddSource includes the calling file and line in every record.
	AddSource bool
}

// New returns a logger writing to stderr.
func New(opts Options) *slog.Logger {
	return NewWithWriter(os.Stderr, opts, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewWithWriter returns a logger writing to w. isTerminal decides the format
// when opts.Format is "auto".
func NewWithWriter(w io.Writer, opts Options, isTerminal bool) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		AddSource: opts.AddSource,
		Level:     ParseLevel(opts.Level),
	}

	var handler slog.Handler
	switch opts.Format {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		if isTerminal {
			handler = slog.NewTextHandler(w, handlerOpts)
		} else {
			handler = slog.NewJSONHandler(w, handlerOpts)
		}
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
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

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
