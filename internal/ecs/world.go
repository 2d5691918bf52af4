package ecs

import (
	"github.com/emberengine/ember/internal/engineerr"
	"github.com/emberengine/ember/internal/logging"
	"github.com/emberengine/ember/internal/mempool"
)

// World owns one set of entities and their components. Distinct Worlds
// never share entity IDs or component arrays; scene.Manager keeps one
// World per named scene. Component payloads are borrowed from pool by
// reference under TagComponent — the World never owns the underlying
// bytes, only the handles addressing them.
type World struct {
	entities *entityManager
	arrays   map[ComponentType]typeErasedArray
	names    map[ComponentType]string
	nextType uint32
	maxTypes uint32
	pool     *mempool.Pool
	trace    *logging.Tracer
}

// NewWorld creates an empty World whose component payloads are allocated
// from pool. pool must outlive the World.
func NewWorld(pool *mempool.Pool) *World {
	return newWorldWithLimits(pool, MaxEntities, MaxComponentTypes)
}

func newWorldWithLimits(pool *mempool.Pool, maxEntities, maxComponentTypes uint32) *World {
	return &World{
		entities: newEntityManager(maxEntities),
		arrays:   make(map[ComponentType]typeErasedArray),
		names:    make(map[ComponentType]string),
		nextType: 1, // 0 is reserved as InvalidComponentType
		maxTypes: maxComponentTypes,
		pool:     pool,
		trace:    logging.DefaultTracer(),
	}
}

// CreateEntity allocates a new Entity, reusing a freed ID if one is
// available, or returns InvalidEntity once MaxEntities are already live.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes e's components from every registered array,
// returning their pool allocations, and returns its ID to the free list.
// Returns false if e was not alive.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, arr := range w.arrays {
		arr.removeErased(e)
	}
	return true
}

// IsAlive reports whether e currently exists in this World.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.entities.count()
}

// ComponentCount returns the number of live components of the given type,
// or 0 if ct was never registered.
func (w *World) ComponentCount(ct ComponentType) int {
	arr, ok := w.arrays[ct]
	if !ok {
		return 0
	}
	return arr.lenErased()
}

// ComponentTypeName returns the name given to ct at RegisterComponent time,
// or "unnamed" if none was given.
func (w *World) ComponentTypeName(ct ComponentType) string {
	if name, ok := w.names[ct]; ok {
		return name
	}
	return "unnamed"
}

// RegisterComponent assigns a new ComponentType and creates its backing,
// pool-allocated sparse set for payload type T, named for diagnostics and
// metrics attribution. Returns InvalidComponentType without assigning an ID
// once MaxComponentTypes are already registered for w.
func RegisterComponent[T any](w *World, name string) (ComponentType, error) {
	if w.nextType > w.maxTypes {
		return InvalidComponentType, engineerr.Invalid("componentType", "MAX_COMPONENTS exceeded")
	}
	ct := ComponentType(w.nextType)
	w.nextType++
	w.arrays[ct] = newComponentArray[T](w.pool)
	w.names[ct] = name
	return ct, nil
}

func arrayFor[T any](w *World, ct ComponentType) (*componentArray[T], error) {
	raw, ok := w.arrays[ct]
	if !ok {
		return nil, engineerr.Uninitialized("component type " + w.ComponentTypeName(ct))
	}
	arr, ok := raw.(*componentArray[T])
	if !ok {
		return nil, engineerr.Invalid("T", "does not match the type registered for this ComponentType")
	}
	return arr, nil
}

// AddComponent attaches value to e under ct, overwriting any existing
// component of that type on e. The payload is written into a block drawn
// from the World's memory pool under TagComponent.
func AddComponent[T any](w *World, ct ComponentType, e Entity, value T) error {
	if !w.entities.isAlive(e) {
		return engineerr.Invalid("entity", "not alive")
	}
	arr, err := arrayFor[T](w, ct)
	if err != nil {
		return err
	}
	if err := arr.add(e, value); err != nil {
		return err
	}
	if w.trace.Enabled() {
		w.trace.ComponentOp("add", uint32(e), uint32(ct))
	}
	return nil
}

// GetComponent returns a pointer into e's pool-backed component of type ct,
// or false if e has none. The pointer is valid until the component is
// removed or e is destroyed.
func GetComponent[T any](w *World, ct ComponentType, e Entity) (*T, bool) {
	arr, err := arrayFor[T](w, ct)
	if err != nil {
		return nil, false
	}
	return arr.get(e)
}

// RemoveComponent detaches e's component of type ct, if present, freeing
// its pool allocation.
func RemoveComponent[T any](w *World, ct ComponentType, e Entity) bool {
	arr, err := arrayFor[T](w, ct)
	if err != nil {
		return false
	}
	removed := arr.remove(e)
	if removed && w.trace.Enabled() {
		w.trace.ComponentOp("remove", uint32(e), uint32(ct))
	}
	return removed
}

// HasComponent reports whether e carries a component of type ct.
func HasComponent[T any](w *World, ct ComponentType, e Entity) bool {
	arr, err := arrayFor[T](w, ct)
	if err != nil {
		return false
	}
	return arr.has(e)
}
