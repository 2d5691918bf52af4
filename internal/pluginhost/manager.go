package pluginhost

import (
	"github.com/emberengine/ember/internal/engineerr"
	"github.com/emberengine/ember/internal/platform"
)

// Manager aggregates many Plugins under a dense slice plus a name index,
// grounded on the original engine's dense/sparse plugin table (many
// plugins, not just one). Each Plugin still follows the exact FSM in
// plugin.go; the manager only adds bulk Load/UpdateAll convenience.
type Manager struct {
	dense  []*Plugin
	sparse map[string]int
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{sparse: make(map[string]int)}
}

// Load creates a named Plugin, loads it from path, and adds it to the
// manager. Returns InvalidArgument if name is already registered.
func (m *Manager) Load(plat platform.Platform, name, path string) (*Plugin, error) {
	if _, exists := m.sparse[name]; exists {
		return nil, engineerr.Invalid("name", "plugin already registered: "+name)
	}
	p := New(name)
	if err := p.Load(plat, path); err != nil {
		return nil, err
	}
	m.sparse[name] = len(m.dense)
	m.dense = append(m.dense, p)
	return p, nil
}

// Get returns the plugin registered under name, if any.
func (m *Manager) Get(name string) (*Plugin, bool) {
	idx, ok := m.sparse[name]
	if !ok {
		return nil, false
	}
	return m.dense[idx], true
}

// Unload stops (if running) and unloads the named plugin, then removes it
// from the manager via swap-remove. A plugin that was loaded but never
// started is removed while still LOADED; its library is not closed.
func (m *Manager) Unload(name string) error {
	idx, ok := m.sparse[name]
	if !ok {
		return engineerr.Invalid("name", "no such plugin: "+name)
	}
	p := m.dense[idx]

	if p.State() == Running {
		if err := p.Stop(); err != nil {
			return err
		}
	}
	if p.State() == Stopped {
		if err := p.Unload(); err != nil {
			return err
		}
	}

	last := len(m.dense) - 1
	lastPlugin := m.dense[last]
	m.dense[idx] = lastPlugin
	m.sparse[lastPlugin.Name] = idx
	m.dense = m.dense[:last]
	delete(m.sparse, name)
	return nil
}

// UpdateAll calls Update(dt) on every Running plugin, collecting but not
// stopping on individual errors so one misbehaving plugin cannot halt the
// others; the returned slice is empty when every plugin updated cleanly.
func (m *Manager) UpdateAll(dt float32) []error {
	var errs []error
	for _, p := range m.dense {
		if p.State() != Running {
			continue
		}
		if err := p.Update(dt); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Len reports the number of registered plugins.
func (m *Manager) Len() int {
	return len(m.dense)
}

// Names returns the names of every registered plugin in dense order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.dense))
	for i, p := range m.dense {
		names[i] = p.Name
	}
	return names
}
