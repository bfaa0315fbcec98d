// Package cli implements the stargen command-line interface.
//
// The commands generate galaxies, render star maps, browse a galaxy in the
// terminal, manage stored galaxies and the result cache, and run the HTTP
// API. The CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Generate a galaxy and write it as JSON
//   - render: Render a galaxy file to SVG, PNG, PDF, or ASCII
//   - browse: Explore a galaxy file interactively
//   - galaxies: List, export, and remove stored galaxies
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//   - tables: Print the embedded distribution tables
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI's stderr logger, stamped "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one step of a command.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the step's duration, rounded to the
// millisecond, followed by keyvals:
//
//	14:32:01.45 INFO Generated galaxy duration=1.234s systems=212
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"duration", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// the package default when run outside it.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
