// Package sysreg holds the ordered list of per-frame system callbacks an
// Engine drives every tick.
package sysreg

import (
	"time"

	"github.com/emberengine/ember/internal/metrics"
)

// UpdateFunc is a single system's per-frame callback, given the elapsed
// time in seconds since the previous frame.
type UpdateFunc func(dt float32)

type entry struct {
	name   string
	update UpdateFunc
}

// MaxSystems bounds how many systems a Registry holds at once. Register
// returns false without appending once this many are already registered.
const MaxSystems = 128

// Registry runs registered systems in registration order every tick.
type Registry struct {
	entries []entry
	max     int
	metrics *metrics.Collector
}

// New creates an empty Registry capped at MaxSystems.
func New() *Registry {
	return &Registry{max: MaxSystems}
}

// AttachMetrics wires a metrics.Collector that Update reports per-system
// durations to.
func (r *Registry) AttachMetrics(c *metrics.Collector) {
	r.metrics = c
}

// Register appends a named system to the end of the update order. Returns
// false without registering once MaxSystems are already held.
func (r *Registry) Register(name string, update UpdateFunc) bool {
	if len(r.entries) >= r.max {
		return false
	}
	r.entries = append(r.entries, entry{name: name, update: update})
	return true
}

// Unregister removes the first system registered under name, if any.
func (r *Registry) Unregister(name string) bool {
	for i, e := range r.entries {
		if e.name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of registered systems.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Update invokes every registered system in registration order with dt.
func (r *Registry) Update(dt float32) {
	for _, e := range r.entries {
		if r.metrics == nil {
			e.update(dt)
			continue
		}
		start := time.Now()
		e.update(dt)
		r.metrics.ObserveSystem(e.name, time.Since(start).Seconds())
	}
}
