package logging

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Tracer is a zero-allocation-when-disabled event sink for the allocator
// and ECS hot paths, where logrus' field-map allocation per call would be
// too costly to leave compiled in. Enabled only when EMBER_TRACE=1.
type Tracer struct {
	enabled bool
	log     zerolog.Logger
}

var (
	tracerOnce     sync.Once
	defaultTracer  *Tracer
)

// NewTracer builds a Tracer, enabled only if EMBER_TRACE=1 is set.
func NewTracer() *Tracer {
	enabled := os.Getenv("EMBER_TRACE") == "1"
	return &Tracer{
		enabled: enabled,
		log:     zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
}

// DefaultTracer returns the process-wide Tracer, built once from the environment.
func DefaultTracer() *Tracer {
	tracerOnce.Do(func() {
		defaultTracer = NewTracer()
	})
	return defaultTracer
}

// Enabled reports whether tracing is switched on, letting hot-path callers
// skip formatting arguments entirely when it is not.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Alloc records a single allocation on the hot path.
func (t *Tracer) Alloc(tag string, size uint64, addr uintptr) {
	if !t.Enabled() {
		return
	}
	t.log.Trace().Str("tag", tag).Uint64("size", size).Uint64("addr", uint64(addr)).Msg("alloc")
}

// Free records a single free on the hot path.
func (t *Tracer) Free(tag string, addr uintptr) {
	if !t.Enabled() {
		return
	}
	t.log.Trace().Str("tag", tag).Uint64("addr", uint64(addr)).Msg("free")
}

// ComponentOp records a sparse-set add/remove/get on the ECS hot path.
func (t *Tracer) ComponentOp(op string, entity uint32, componentType uint32) {
	if !t.Enabled() {
		return
	}
	t.log.Trace().Str("op", op).Uint32("entity", entity).Uint32("component_type", componentType).Msg("ecs")
}
