package ecs

import (
	"unsafe"

	"github.com/emberengine/ember/internal/mempool"
)

// ComponentType identifies a kind of component. Callers obtain one via
// RegisterComponent and use it to address that component's array.
type ComponentType uint32

// InvalidComponentType is the reserved zero value; RegisterComponent
// returns it once MaxComponentTypes are already registered for a World.
const InvalidComponentType ComponentType = 0

// MaxComponentTypes bounds how many distinct component types a World can
// register. RegisterComponent returns InvalidComponentType without
// assigning an ID once this many are already registered.
const MaxComponentTypes = 256

const invalidIndex = ^uint32(0)

// componentArray is a per-type sparse set: sparse[entity] gives the index
// into dense/handles for that entity; an absent entity has no entry. Every
// component's payload lives in a block drawn from the World's memory pool
// under TagComponent, addressed by handle; the array itself holds no
// payload bytes directly. Removal swaps the last dense element into the
// removed slot, so indices are not stable across a Remove call — callers
// address by Entity, never by index.
type componentArray[T any] struct {
	pool    *mempool.Pool
	sparse  map[Entity]uint32
	dense   []Entity
	handles []mempool.Handle
}

func newComponentArray[T any](pool *mempool.Pool) *componentArray[T] {
	return &componentArray[T]{
		pool:   pool,
		sparse: make(map[Entity]uint32),
	}
}

// componentSize returns T's storage footprint, with a 1-byte floor so that
// zero-sized marker components still get an addressable pool block.
func componentSize[T any]() uint64 {
	var zero T
	if size := uint64(unsafe.Sizeof(zero)); size > 0 {
		return size
	}
	return 1
}

func componentAlign[T any]() uint64 {
	var zero T
	if align := uint64(unsafe.Alignof(zero)); align > 0 {
		return align
	}
	return 1
}

func (c *componentArray[T]) write(h mempool.Handle, value T) error {
	buf, err := c.pool.Bytes(h)
	if err != nil {
		return err
	}
	*(*T)(unsafe.Pointer(&buf[0])) = value
	return nil
}

func (c *componentArray[T]) add(e Entity, value T) error {
	if idx, ok := c.sparse[e]; ok {
		return c.write(c.handles[idx], value)
	}

	h, err := c.pool.AllocateAligned(mempool.TagComponent, componentSize[T](), componentAlign[T]())
	if err != nil {
		return err
	}
	if err := c.write(h, value); err != nil {
		c.pool.Free(h)
		return err
	}

	idx := uint32(len(c.dense))
	c.sparse[e] = idx
	c.dense = append(c.dense, e)
	c.handles = append(c.handles, h)
	return nil
}

func (c *componentArray[T]) remove(e Entity) bool {
	idx, ok := c.sparse[e]
	if !ok {
		return false
	}
	last := uint32(len(c.dense) - 1)
	lastEntity := c.dense[last]
	freed := c.handles[idx]

	c.dense[idx] = lastEntity
	c.handles[idx] = c.handles[last]
	c.sparse[lastEntity] = idx

	c.dense = c.dense[:last]
	c.handles = c.handles[:last]
	delete(c.sparse, e)

	c.pool.Free(freed)
	return true
}

func (c *componentArray[T]) get(e Entity) (*T, bool) {
	idx, ok := c.sparse[e]
	if !ok {
		return nil, false
	}
	buf, err := c.pool.Bytes(c.handles[idx])
	if err != nil {
		return nil, false
	}
	return (*T)(unsafe.Pointer(&buf[0])), true
}

func (c *componentArray[T]) has(e Entity) bool {
	_, ok := c.sparse[e]
	return ok
}

func (c *componentArray[T]) len() int {
	return len(c.dense)
}

// typeErasedArray lets World.DestroyEntity remove an entity from every
// registered component array without knowing each array's payload type.
type typeErasedArray interface {
	removeErased(e Entity) bool
	lenErased() int
}

func (c *componentArray[T]) removeErased(e Entity) bool { return c.remove(e) }
func (c *componentArray[T]) lenErased() int              { return c.len() }
