// Package cli implements the assetcanvas command-line interface.
//
// This package provides commands for serving the canvas over HTTP and
// WebSocket, rendering canvas frames to files, and moving enterprise data
// in and out of the configured storage backend. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - serve: Run the canvas server
//   - render: Draw the canvas as SVG, PNG, PDF, JSON or MessagePack, or the
//     whole tree as DOT or a Graphviz diagram
//   - export, import: Move enterprise JSON files in and out of storage
//   - validate: Check an enterprise file
//   - tree: Print or browse the hierarchy
//   - config: Print the effective configuration
//   - storage: Inspect or clear the storage backend
//   - cache: Manage rendered diagrams
//
// # Logging
//
// The level comes from log.level in the config file; --verbose (-v) forces
// debug. Loggers are passed through context.Context so helpers can log
// without the CLI value.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/assetcanvas/pkg/errors"
)

// newLogger creates a logger writing timestamped lines to w.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLevel maps a log.level config value to a logger level. An empty
// name means info.
func parseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level %q", name)
	}
	return level, nil
}

// progress times one operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
