// Package freelist implements a classic first-fit free-list allocator:
// nodes describing free spans are threaded through the free memory itself,
// split on allocation when the remainder is worth keeping, and always
// re-appended to the list on Free — earlier engine generations had a bug
// where Free silently no-op'd on certain sizes; this implementation never
// takes that shortcut.
package freelist

import (
	"sync"

	"github.com/emberengine/ember/internal/engineerr"
)

// nodeSize is the minimum span worth splitting off: any remainder smaller
// than this is handed to the caller as internal fragmentation instead.
const nodeSize = 16

type node struct {
	offset uint64
	size   uint64
	next   int // index into the node slice, or -1
}

// Block identifies one live allocation.
type Block struct {
	offset uint64
	size   uint64
}

// Valid reports whether b was populated by a successful Allocate.
func (b Block) Valid() bool {
	return b.size > 0
}

// FreeList is a first-fit allocator over a fixed backing buffer.
type FreeList struct {
	mu    sync.Mutex
	buf   []byte
	nodes []node
	head  int // index of first free node, or -1
}

// Create reserves a buffer of capacity bytes, initially one large free span.
func Create(capacity uint64) (*FreeList, error) {
	if capacity == 0 {
		return nil, engineerr.Invalid("capacity", "must be greater than zero")
	}
	fl := &FreeList{
		buf:   make([]byte, capacity),
		nodes: make([]node, 0, 64),
		head:  -1,
	}
	fl.pushNode(0, capacity)
	return fl, nil
}

// pushNode appends a free node to the head of the list. Node slots are
// never reused: every call grows the backing slice by one, so the slice
// grows with each Free.
func (fl *FreeList) pushNode(offset, size uint64) {
	fl.nodes = append(fl.nodes, node{offset: offset, size: size, next: fl.head})
	fl.head = len(fl.nodes) - 1
}

// Allocate reserves size bytes via first fit and returns the Block.
func (fl *FreeList) Allocate(size uint64) (Block, error) {
	if size == 0 {
		return Block{}, engineerr.Invalid("size", "must be greater than zero")
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()

	prev := -1
	cur := fl.head
	for cur != -1 {
		n := fl.nodes[cur]
		if n.size >= size {
			remainder := n.size - size
			if remainder >= nodeSize {
				// Shrink the node in place to represent the leftover span.
				fl.nodes[cur].offset = n.offset + size
				fl.nodes[cur].size = remainder
			} else {
				fl.unlink(prev, cur)
				size = n.size // hand over the whole span, remainder too small to track
			}
			return Block{offset: n.offset, size: size}, nil
		}
		prev = cur
		cur = n.next
	}

	return Block{}, engineerr.AllocFailed("FREELIST", size)
}

func (fl *FreeList) unlink(prev, cur int) {
	if prev == -1 {
		fl.head = fl.nodes[cur].next
		return
	}
	fl.nodes[prev].next = fl.nodes[cur].next
}

// Free always returns b's span to the free list as a new node. It never
// silently drops the free.
func (fl *FreeList) Free(b Block) error {
	if !b.Valid() {
		return engineerr.Invalid("block", "zero value")
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()

	if b.offset+b.size > uint64(len(fl.buf)) {
		return engineerr.Invalid("block", "out of range")
	}
	fl.pushNode(b.offset, b.size)
	return nil
}

// Bytes returns the data slice backing b.
func (fl *FreeList) Bytes(b Block) ([]byte, error) {
	if !b.Valid() {
		return nil, engineerr.Invalid("block", "zero value")
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.buf[b.offset : b.offset+b.size], nil
}

// Destroy releases the backing buffer.
func (fl *FreeList) Destroy() {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	fl.buf = nil
	fl.nodes = nil
	fl.head = -1
}

// FreeBytes sums the size of every node currently on the free list.
func (fl *FreeList) FreeBytes() uint64 {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	var total uint64
	for cur := fl.head; cur != -1; cur = fl.nodes[cur].next {
		total += fl.nodes[cur].size
	}
	return total
}
