package topoindex

import (
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/topoindex/core"
)

// Logger wraps slog.Logger with index-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithID adds an entity id field.
func (l *Logger) WithID(id core.EntityID) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", uint64(id)),
	}
}

// WithType adds an entity type field.
func (l *Logger) WithType(t core.EntityType) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", t.String()),
	}
}

// LogRegister logs an entity registration.
func (l *Logger) LogRegister(key core.EntityKey, err error) {
	el := l.WithID(key.ID).WithType(key.Type)
	if err != nil {
		el.Warn("register failed",
			"uid", uint32(key.UID),
			"error", err,
		)
		return
	}
	el.Debug("entity registered",
		"uid", uint32(key.UID),
	)
}

// LogRemove logs an entity removal.
func (l *Logger) LogRemove(id core.EntityID, edges int, err error) {
	el := l.WithID(id)
	if err != nil {
		el.Debug("remove failed",
			"error", err,
		)
		return
	}
	el.Debug("entity removed",
		"edges_severed", edges,
	)
}

// LogEdge logs an edge mutation.
func (l *Logger) LogEdge(op string, parent, child core.EntityID, err error) {
	if err != nil {
		l.Debug("edge "+op+" failed",
			"parent", uint64(parent),
			"child", uint64(child),
			"error", err,
		)
		return
	}
	l.Debug("edge "+op,
		"parent", uint64(parent),
		"child", uint64(child),
	)
}

// LogRebuild logs a closure rebuild.
func (l *Logger) LogRebuild(nodes, edges int, duration time.Duration) {
	l.Debug("closure rebuilt",
		"nodes", nodes,
		"edges", edges,
		"duration", duration,
	)
}
