// Package logging wraps logrus with the engine's structured-field
// conventions, and exposes a zerolog-backed tracer for the allocator/ECS
// hot path that can be compiled in without cost when disabled.
package logging

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	traceIDKey ctxKey = iota
	subsystemKey
)

// Logger wraps a *logrus.Logger with the engine's conventional fields.
type Logger struct {
	*logrus.Logger
	component string
}

// New builds a Logger for the named component ("mempool", "ecs", "plugin",
// "engine", ...) at the given level ("debug", "info", "warn", "error") and
// format ("json" or "text").
func New(component, level, format string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	switch strings.ToLower(format) {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return &Logger{Logger: l, component: component}
}

// NewFromEnv builds a Logger reading EMBER_LOG_LEVEL / EMBER_LOG_FORMAT,
// defaulting to info/json, mirroring the teacher's NewFromEnv convention.
func NewFromEnv(component string) *Logger {
	level := os.Getenv("EMBER_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	format := os.Getenv("EMBER_LOG_FORMAT")
	if format == "" {
		format = "json"
	}
	return New(component, level, format)
}

// WithContext attaches a trace ID found in ctx, if any, as a field.
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.WithField("component", l.component)
	if tid, ok := ctx.Value(traceIDKey).(string); ok && tid != "" {
		entry = entry.WithField("trace_id", tid)
	}
	return entry
}

// WithTraceID returns a context carrying the given trace ID for later log calls.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// WithFields is a thin pass-through that always tags the component field.
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	fields["component"] = l.component
	return l.Logger.WithFields(fields)
}

// WithError tags the component and wraps err via logrus' standard error key.
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithField("component", l.component).WithError(err)
}

// Allocation logs a single allocation or free event at debug level; callers
// gate this behind a check of IsLevelEnabled(logrus.DebugLevel) on hot paths.
func (l *Logger) Allocation(op, tag string, size uint64) {
	l.WithFields(logrus.Fields{"op": op, "tag": tag, "size": size}).Debug("memory operation")
}

// Leak logs a leaked allocation discovered during DetectLeaks or shutdown.
func (l *Logger) Leak(tag string, count int, bytes uint64) {
	l.WithFields(logrus.Fields{"tag": tag, "count": count, "bytes": bytes}).Warn("leaked allocations detected")
}

// PluginTransition logs a plugin FSM state change.
func (l *Logger) PluginTransition(name, from, to string) {
	l.WithFields(logrus.Fields{"plugin": name, "from": from, "to": to}).Info("plugin state transition")
}

// FrameSlow logs a frame that overran its budget.
func (l *Logger) FrameSlow(dtMillis float64, budgetMillis float64) {
	l.WithFields(logrus.Fields{"dt_ms": dtMillis, "budget_ms": budgetMillis}).Warn("frame overran budget")
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns a process-wide Logger for the "engine" component,
// initializing it from the environment on first use.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = NewFromEnv("engine")
	})
	return defaultLogger
}
