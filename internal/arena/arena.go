// Package arena implements a bump-pointer allocator with save/restore
// markers, for callers (typically per-frame scratch allocations) that want
// to free an entire batch of allocations in one O(1) operation rather than
// individually.
package arena

import (
	"sync"

	"github.com/emberengine/ember/internal/engineerr"
)

const defaultAlignment = 8

// Arena is a bump-pointer allocator over a fixed-size backing buffer.
type Arena struct {
	mu        sync.Mutex
	buf       []byte
	alignment uint64
	used      uint64
}

// Create reserves capacity bytes. alignment must be a power of two; zero
// selects the default of 8.
func Create(capacity uint64, alignment uint64) (*Arena, error) {
	if capacity == 0 {
		return nil, engineerr.Invalid("capacity", "must be greater than zero")
	}
	if alignment == 0 {
		alignment = defaultAlignment
	}
	if alignment&(alignment-1) != 0 {
		return nil, engineerr.Invalid("alignment", "must be a power of two")
	}
	return &Arena{
		buf:       make([]byte, capacity),
		alignment: alignment,
	}, nil
}

func (a *Arena) alignUp(n uint64) uint64 {
	m := a.alignment
	return (n + m - 1) &^ (m - 1)
}

// Allocate reserves size bytes and returns the slice, or AllocationFailed
// if the arena has no room left.
func (a *Arena) Allocate(size uint64) ([]byte, error) {
	if size == 0 {
		return nil, engineerr.Invalid("size", "must be greater than zero")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := a.alignUp(a.used)
	end := start + size
	if end > uint64(len(a.buf)) {
		return nil, engineerr.AllocFailed("ARENA", size)
	}
	a.used = end
	return a.buf[start:end], nil
}

// Marker is an opaque save point produced by GetMarker.
type Marker uint64

// GetMarker returns the current bump position, to be passed to
// ResetToMarker later.
func (a *Arena) GetMarker() Marker {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Marker(a.used)
}

// SetMarker is an alias for ResetToMarker kept for symmetry with GetMarker.
func (a *Arena) SetMarker(m Marker) error {
	return a.ResetToMarker(m)
}

// ResetToMarker rewinds the bump pointer to m, invalidating every slice
// returned by Allocate since the marker was taken. It is the caller's
// responsibility to stop using those slices.
func (a *Arena) ResetToMarker(m Marker) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if uint64(m) > uint64(len(a.buf)) {
		return engineerr.Invalid("marker", "out of range")
	}
	a.used = uint64(m)
	return nil
}

// Reset rewinds the arena to empty, equivalent to ResetToMarker(0).
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.used = 0
}

// Used reports the number of bytes currently committed.
func (a *Arena) Used() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.used
}

// Capacity reports the arena's total size.
func (a *Arena) Capacity() uint64 {
	return uint64(len(a.buf))
}

// Destroy releases the backing buffer. The Arena must not be used afterward.
func (a *Arena) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buf = nil
	a.used = 0
}
