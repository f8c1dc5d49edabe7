// Package logging wraps log/slog with the handful of conventions meshc
// needs across its CLI: a level flag and a text/json format switch.
// Output is never colorized; IsTerminal only reports whether stderr is
// a terminal.
//
// No example in this codebase's dependency corpus carries a
// structured-logging library of its own — funvibe-funxy and
// termfx-morfx both log ad hoc with fmt/log — so this package stays on
// the standard library rather than inventing a dependency that nothing
// else here grounds.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// New builds the process-wide logger from a level string ("debug",
// "info", "warn", "error") and a format string ("text" or "json").
// Unrecognized levels fall back to info; unrecognized formats fall
// back to text.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewDefault builds a logger writing to stderr. An empty format selects
// text; the format is never chosen from the environment or from whether
// stderr is a terminal.
func NewDefault(level, format string) *slog.Logger {
	if format == "" {
		format = "text"
	}
	return New(level, format, os.Stderr)
}

// IsTerminal reports whether fd 2 (stderr) is attached to a terminal
// (including a Cygwin terminal).
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
