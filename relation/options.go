package relation

import (
	"log/slog"
	"time"
)

// RebuildStats describes one full closure rebuild.
type RebuildStats struct {
	Nodes    int
	Edges    int
	Duration time.Duration
}

type options struct {
	logger      *slog.Logger
	parallelism int
	incremental bool
	onRebuild   func(RebuildStats)
}

// Option configures an Index.
type Option func(*options)

// WithLogger sets the logger used for rebuild diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParallelism sets how many goroutines compute closures during a
// rebuild. The default of 1 computes them on the calling goroutine.
// The rebuild holds the exclusive lock either way.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.parallelism = n
	}
}

// WithIncremental toggles in-place closure extension on AddEdge.
// When disabled every edge insertion marks the cache Dirty.
// Enabled by default.
func WithIncremental(enabled bool) Option {
	return func(o *options) {
		o.incremental = enabled
	}
}

// WithRebuildHook registers fn to be called after every full rebuild,
// while the exclusive lock is still held. fn must not call back into the
// Index.
func WithRebuildHook(fn func(RebuildStats)) Option {
	return func(o *options) {
		o.onRebuild = fn
	}
}
