package platform

import (
	"context"
	"plugin"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/emberengine/ember/internal/engineerr"
)

// Headless is the default Platform backend: no window, no renderer, real
// aligned allocation, a real monotonic clock and real plugin loading via
// the standard library's plugin package.
type Headless struct {
	running int32
}

// NewHeadless returns a Platform ready to run; IsRunning is true until
// RequestShutdown is called.
func NewHeadless() *Headless {
	h := &Headless{}
	atomic.StoreInt32(&h.running, 1)
	return h
}

// AlignedAlloc allocates a byte slice whose first element satisfies the
// requested alignment by over-allocating and slicing forward. Go does not
// expose posix_memalign; this is the idiomatic workaround used across the
// ecosystem's unsafe-free allocators.
func (h *Headless) AlignedAlloc(size, alignment uint64) ([]byte, error) {
	if alignment == 0 || alignment&(alignment-1) != 0 {
		return nil, engineerr.Invalid("alignment", "must be a power of two")
	}
	buf := make([]byte, size+alignment)
	// Skip forward to the first byte whose address is a multiple of
	// alignment; the extra alignment bytes guarantee size still fits.
	addr := uint64(uintptr(unsafe.Pointer(&buf[0])))
	off := (alignment - addr%alignment) % alignment
	return buf[off : off+size], nil
}

// AlignedFree is a no-op; the garbage collector reclaims buf.
func (h *Headless) AlignedFree(buf []byte) {}

// MonotonicNow returns time.Now(), which on every Go-supported OS already
// reads a monotonic clock reading alongside the wall clock.
func (h *Headless) MonotonicNow() time.Time {
	return time.Now()
}

// NewMutex returns a sync.Mutex-backed Mutex.
func (h *Headless) NewMutex() Mutex {
	return &sync.Mutex{}
}

// LibOpen loads a Go plugin (.so built with `go build -buildmode=plugin`).
func (h *Headless) LibOpen(path string) (Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.Generic, "failed to open plugin library", err).WithDetail("path", path)
	}
	return &goLibrary{path: path, plugin: p}, nil
}

// PollEvents is a no-op for the headless backend; there is no event queue.
func (h *Headless) PollEvents(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// IsRunning reports whether RequestShutdown has been called.
func (h *Headless) IsRunning() bool {
	return atomic.LoadInt32(&h.running) == 1
}

// RequestShutdown flips IsRunning to false.
func (h *Headless) RequestShutdown() {
	atomic.StoreInt32(&h.running, 0)
}

// Renderer returns nil: the headless backend has no presentation surface.
func (h *Headless) Renderer() Renderer {
	return nil
}

type goLibrary struct {
	path   string
	plugin *plugin.Plugin
}

func (l *goLibrary) Symbol(name string) (interface{}, error) {
	sym, err := l.plugin.Lookup(name)
	if err != nil {
		return nil, engineerr.MissingSymbol(l.path, name)
	}
	return sym, nil
}

// Close is a no-op: the Go runtime never unloads a loaded plugin.
func (l *goLibrary) Close() error {
	return nil
}
