// Package cli implements the nodedesign command-line interface.
//
// Every command works on a workflow document (litegraph-style JSON):
//   - layout: apply one or more layout operations to the saved selection
//   - analyze: print the flow levels the flow-aware operations use
//   - render: write SVG, PDF, PNG or DOT previews
//   - edit: terminal editor with undo/redo and a floating toolbar
//   - serve: HTTP session API
//   - config, cache: manage the config file and the preview cache
//
// Commands share one charmbracelet/log logger, carried in the command
// context. --verbose (-v) lowers it to debug.
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().Execute(); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat renders timestamps as "14:32:01.45".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// openLogFile returns a logger that appends to path, or one that discards
// everything when path is empty. The editor owns the terminal, so its
// engine logs cannot go to stderr. The returned close func is never nil.
func openLogFile(path string, level log.Level) (*log.Logger, func() error, error) {
	if path == "" {
		return newLogger(io.Discard, level), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log %s: %w", path, err)
	}
	logger := newLogger(f, level)
	logger.SetPrefix(appName)
	return logger, f.Close, nil
}

// progress times a batch of steps. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	steps  int
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// step logs one finished step at debug level.
func (p *progress) step(name string, keyvals ...any) {
	p.steps++
	p.logger.Debug(name, append([]any{"step", p.steps}, keyvals...)...)
}

// done logs msg with the elapsed time, e.g. "Applied 2 operation(s) to 5 nodes (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
