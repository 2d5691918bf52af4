// Package scene gives the ECS world a name-addressable lifecycle: the
// original engine's scene manager was a near-empty stub (see
// original_source/engine/src/scene/scene_manager.c); this package supplies
// the Switch/Unload semantics it never implemented.
package scene

import (
	"github.com/emberengine/ember/internal/ecs"
	"github.com/emberengine/ember/internal/engineerr"
	"github.com/emberengine/ember/internal/mempool"
)

// Manager holds zero or more named worlds, exactly one of which is active
// at a time. Every world it creates borrows its component storage from the
// same pool, by reference.
type Manager struct {
	pool   *mempool.Pool
	worlds map[string]*ecs.World
	active string
}

// NewManager creates an empty Manager with no active scene. pool must
// outlive every world the Manager creates.
func NewManager(pool *mempool.Pool) *Manager {
	return &Manager{pool: pool, worlds: make(map[string]*ecs.World)}
}

// Switch makes name the active scene, creating a fresh *ecs.World for it
// the first time it is named. Switching away from a scene does not destroy
// its entities: switching back to it later resumes exactly where it left
// off.
func (m *Manager) Switch(name string) *ecs.World {
	w, ok := m.worlds[name]
	if !ok {
		w = ecs.NewWorld(m.pool)
		m.worlds[name] = w
	}
	m.active = name
	return w
}

// Active returns the currently active world, or nil if Switch was never called.
func (m *Manager) Active() *ecs.World {
	if m.active == "" {
		return nil
	}
	return m.worlds[m.active]
}

// ActiveName returns the name of the active scene, or "" if none.
func (m *Manager) ActiveName() string {
	return m.active
}

// Unload destroys name's world entirely, including its entities. If name
// was the active scene, there is no active scene afterward until Switch is
// called again.
func (m *Manager) Unload(name string) error {
	w, ok := m.worlds[name]
	if !ok {
		return engineerr.Invalid("name", "no such scene: "+name)
	}
	// Destroying every entity returns its component blocks to the pool.
	for e := ecs.Entity(1); e <= ecs.MaxEntities; e++ {
		w.DestroyEntity(e)
	}
	delete(m.worlds, name)
	if m.active == name {
		m.active = ""
	}
	return nil
}

// Names returns every scene name currently tracked, active or not.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.worlds))
	for name := range m.worlds {
		names = append(names, name)
	}
	return names
}
