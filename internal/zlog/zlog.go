// Package zlog wraps log/slog behind a small functional-options
// constructor (WithLevel/WithWriter options), for runtime diagnostics
// only. No other package imports it: the CLI's stale-payload and
// corrupt-payload warnings are written to stderr with fmt. Evaluation
// errors travel as Go errors and control-flow signals.
package zlog

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the handle passed around the CLI layer.
type Logger struct {
	*slog.Logger
}

type config struct {
	writer io.Writer
	level  slog.Level
}

// Option configures a Logger at construction time.
type Option func(*config)

// WithWriter directs log output to w instead of os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.writer = w }
}

// WithLevel sets the minimum level a record must meet to be emitted.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// New builds a Logger with a text handler, matching the plain
// stderr-oriented diagnostics style of a CLI tool rather than a
// service's structured JSON log stream.
func New(opts ...Option) Logger {
	cfg := config{writer: os.Stderr, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&cfg)
	}
	handler := slog.NewTextHandler(cfg.writer, &slog.HandlerOptions{Level: cfg.level})
	return Logger{Logger: slog.New(handler)}
}

// Default is a package-level logger for call sites that don't carry
// their own.
var Default = New()
