// Package logging configures per-component structured loggers, mirroring
// the original implementation's named-logger-per-stage setup (one logger
// each for heap allocation, discovery, function compilation, and the
// top-level translator) with log/slog instead of hand-rolled formatting.
// No third-party structured-logging library appears anywhere in the
// example pack, so this is the one ambient concern built directly on the
// standard library; see DESIGN.md.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Component names a logger by the compiler stage it instruments.
type Component string

const (
	Heap       Component = "heap"
	Discovery  Component = "discovery"
	Function   Component = "function"
	Translator Component = "translator"
	CLI        Component = "cli"
)

// New returns a slog.Logger tagged with component, writing text-formatted
// records to w at the given level (parsed case-insensitively; an
// unrecognized level falls back to Info).
func New(w io.Writer, level string, component Component) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(h).With("component", string(component))
}

// Default returns a Component logger writing to stderr at info level, for
// call sites that have no configured level handy (e.g. package-level init
// paths exercised outside the CLI).
func Default(component Component) *slog.Logger {
	return New(os.Stderr, "info", component)
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
