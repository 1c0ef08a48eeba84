// Package cli implements the taskvis command-line interface.
//
// This package provides commands for rendering load CSV files as lane
// charts, viewing them in the terminal, generating and importing datasets,
// serving the HTTP API, and managing the artifact cache. The CLI is built
// using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, PNG, PDF, or JSON charts from a CSV file
//   - show: Draw the chart in the terminal
//   - inspect: Browse individual loads interactively
//   - generate: Write a synthetic dataset
//   - import: Pull loads from MongoDB or PostgreSQL into CSV
//   - serve: Run the HTTP API
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports pipeline and cache events through the observability hooks.
// Loggers are passed through context.Context as well as held on [CLI].
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Generated 2000 records (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load started", "source", source)
}

func (h logHooks) OnLoadComplete(_ context.Context, source string, records int, d time.Duration, err error) {
	h.logger.Debug("load finished", "source", source, "records", records, "duration", d, "error", err)
}

func (h logHooks) OnLayoutStart(_ context.Context, records, lanes int) {
	h.logger.Debug("layout started", "records", records, "lanes", lanes)
}

func (h logHooks) OnLayoutComplete(_ context.Context, shapes, overlaps int, d time.Duration, err error) {
	h.logger.Debug("layout finished", "shapes", shapes, "overlaps", overlaps, "duration", d, "error", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render finished", "formats", formats, "duration", d, "error", err)
}

func (h logHooks) OnCacheHit(_ context.Context, format string) {
	h.logger.Debug("cache hit", "format", format)
}

func (h logHooks) OnCacheMiss(_ context.Context, format string) {
	h.logger.Debug("cache miss", "format", format)
}

func (h logHooks) OnCacheSet(_ context.Context, format string, size int) {
	h.logger.Debug("cache set", "format", format, "bytes", size)
}

func (h logHooks) OnCacheError(_ context.Context, op string, err error) {
	h.logger.Debug("cache error", "op", op, "error", err)
}
