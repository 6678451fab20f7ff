// Package cli implements the opdflow command-line interface.
//
// The commands read a diagram file (JSON, YAML or TOML), infer its execution
// graph and either print a view of it, export it, browse it interactively or
// serve queries over HTTP. The CLI is built with cobra; settings come from
// internal/config and logging goes through charmbracelet/log.
//
// # Commands
//
//   - bands: print the bands of parallel processes
//   - initial, next: query the processes that start the flow or follow one
//   - graph: export the graph as JSON, DOT or SVG, optionally on every save
//   - explore: browse the flow in the terminal
//   - serve: run the HTTP query service
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Otherwise the
// level comes from the log_level setting. The logger also travels in the
// command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that stamps each line with "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of one step with its elapsed time, as in
// "Exported order-flow (12ms)". Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for retrieval by loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
