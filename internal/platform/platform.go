// Package platform defines the engine's OS bridge: the narrow capability
// set the engine loop and plugin host need from the underlying operating
// system, so the rest of the core never imports runtime-specific packages
// directly. Grounded on the original engine's Platform function-pointer
// table (window/renderer/dynamic-library/memory/mutex), reduced to what a
// headless Go library can actually provide without a windowing backend.
package platform

import (
	"context"
	"time"
)

// Library is a handle to a dynamically loaded plugin module.
type Library interface {
	// Symbol looks up a named exported value, returning SymbolMissing if
	// absent.
	Symbol(name string) (interface{}, error)
	// Close unloads the library. Not every platform can actually unload a
	// loaded module (notably Go's plugin package never does); Close is
	// still required so callers have one lifecycle to manage.
	Close() error
}

// Mutex is the minimal lock primitive the OS bridge exposes, mirroring the
// original Platform struct's mutex function pointers.
type Mutex interface {
	Lock()
	Unlock()
}

// Renderer is the optional presentation surface. A headless platform
// backend may implement Clear/Present as no-ops.
type Renderer interface {
	Clear() error
	Present() error
}

// Platform is the full OS bridge capability set.
type Platform interface {
	// AlignedAlloc reserves size bytes aligned to alignment, returning the
	// backing slice.
	AlignedAlloc(size, alignment uint64) ([]byte, error)
	// AlignedFree releases a slice previously returned by AlignedAlloc.
	// Go's garbage collector makes this a no-op in practice, but the
	// method is kept so callers using the interface don't special-case it.
	AlignedFree(buf []byte)

	// MonotonicNow returns a monotonic timestamp suitable for frame delta
	// computation.
	MonotonicNow() time.Time

	// NewMutex returns a fresh Mutex.
	NewMutex() Mutex

	// LibOpen loads a dynamic library (a Go plugin .so) from path.
	LibOpen(path string) (Library, error)

	// PollEvents processes any pending OS/windowing events. A headless
	// backend returns immediately.
	PollEvents(ctx context.Context) error

	// IsRunning reports whether the platform still wants the loop to
	// continue (e.g. no quit event/signal received).
	IsRunning() bool

	// RequestShutdown asks IsRunning to return false on its next call.
	RequestShutdown()

	// Renderer returns the optional presentation surface, or nil if this
	// backend is headless.
	Renderer() Renderer
}
