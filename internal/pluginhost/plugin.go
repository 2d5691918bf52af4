// Package pluginhost implements the dynamic-plugin lifecycle: a finite
// state machine (UNLOADED -> LOADED -> RUNNING -> STOPPED -> UNLOADED)
// bound to three required exported symbols in a dynamically loaded module.
package pluginhost

import (
	"github.com/emberengine/ember/internal/engineerr"
	"github.com/emberengine/ember/internal/logging"
	"github.com/emberengine/ember/internal/metrics"
	"github.com/emberengine/ember/internal/platform"
)

// State is one of the plugin container's FSM states.
type State int

const (
	Unloaded State = iota
	Loaded
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "UNLOADED"
	case Loaded:
		return "LOADED"
	case Running:
		return "RUNNING"
	case Stopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Required exported symbol names every plugin module must provide. These
// adapt the original C ABI's plugin_init/plugin_update/plugin_shutdown
// names to the exported-identifier convention Go's plugin package requires.
const (
	symInit     = "PluginInit"
	symUpdate   = "PluginUpdate"
	symShutdown = "PluginShutdown"
)

type initFunc func() error
type updateFunc func(float32)
type shutdownFunc func()

// Plugin is one loaded plugin module and its current FSM state.
type Plugin struct {
	Name string

	state State
	lib   platform.Library

	init     initFunc
	update   updateFunc
	shutdown shutdownFunc

	log     *logging.Logger
	metrics *metrics.Collector
}

// New creates a Plugin in the UNLOADED state.
func New(name string) *Plugin {
	return &Plugin{Name: name, state: Unloaded}
}

// AttachLogger wires a logger used for state-transition log lines.
func (p *Plugin) AttachLogger(l *logging.Logger) { p.log = l }

// AttachMetrics wires a metrics.Collector for transition counters.
func (p *Plugin) AttachMetrics(c *metrics.Collector) { p.metrics = c }

// State reports the plugin's current FSM state.
func (p *Plugin) State() State { return p.state }

func (p *Plugin) transition(to State) {
	from := p.state
	p.state = to
	if p.log != nil {
		p.log.PluginTransition(p.Name, from.String(), to.String())
	}
	if p.metrics != nil {
		p.metrics.RecordPluginTransition(p.Name, from.String(), to.String())
	}
}

// Load opens path via plat and resolves the three required symbols.
// Requires State() == Unloaded. On success the Plugin moves to Loaded.
func (p *Plugin) Load(plat platform.Platform, path string) error {
	if p.state != Unloaded {
		return engineerr.Invalid("state", "Load requires UNLOADED, got "+p.state.String())
	}

	lib, err := plat.LibOpen(path)
	if err != nil {
		return err
	}

	initSym, err := lib.Symbol(symInit)
	if err != nil {
		return err
	}
	initFn, ok := initSym.(func() error)
	if !ok {
		return engineerr.MissingSymbol(path, symInit).WithDetail("reason", "wrong signature, want func() error")
	}

	updateSym, err := lib.Symbol(symUpdate)
	if err != nil {
		return err
	}
	updateFn, ok := updateSym.(func(float32))
	if !ok {
		return engineerr.MissingSymbol(path, symUpdate).WithDetail("reason", "wrong signature, want func(float32)")
	}

	shutdownSym, err := lib.Symbol(symShutdown)
	if err != nil {
		return err
	}
	shutdownFn, ok := shutdownSym.(func())
	if !ok {
		return engineerr.MissingSymbol(path, symShutdown).WithDetail("reason", "wrong signature, want func()")
	}

	p.lib = lib
	p.init = initFn
	p.update = updateFn
	p.shutdown = shutdownFn
	p.transition(Loaded)
	return nil
}

// Start calls the plugin's init function and moves it to Running.
// Requires State() == Loaded.
func (p *Plugin) Start() error {
	if p.state != Loaded {
		return engineerr.Invalid("state", "Start requires LOADED, got "+p.state.String())
	}
	if err := p.init(); err != nil {
		return engineerr.Wrap(engineerr.Generic, "plugin init failed", err)
	}
	p.transition(Running)
	return nil
}

// Update calls the plugin's per-frame update function. Requires
// State() == Running; callers should skip Update entirely rather than
// treat this as a soft failure on other states.
func (p *Plugin) Update(dt float32) error {
	if p.state != Running {
		return engineerr.Invalid("state", "Update requires RUNNING, got "+p.state.String())
	}
	p.update(dt)
	return nil
}

// Stop calls the plugin's shutdown function and moves it to Stopped.
// Requires State() == Running.
func (p *Plugin) Stop() error {
	if p.state != Running {
		return engineerr.Invalid("state", "Stop requires RUNNING, got "+p.state.String())
	}
	p.shutdown()
	p.transition(Stopped)
	return nil
}

// Unload releases the dynamic library handle and returns the plugin to
// UNLOADED so it may be Load-ed again. Requires State() == Stopped.
func (p *Plugin) Unload() error {
	if p.state != Stopped {
		return engineerr.Invalid("state", "Unload requires STOPPED, got "+p.state.String())
	}
	if err := p.lib.Close(); err != nil {
		return err
	}
	p.lib, p.init, p.update, p.shutdown = nil, nil, nil, nil
	p.transition(Unloaded)
	return nil
}
