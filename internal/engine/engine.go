// Package engine owns the main loop: it wires together the memory pool,
// platform bridge, ECS scene manager, system registry and plugin manager,
// and drives poll -> update -> render -> present every frame until the
// platform reports it should stop.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/emberengine/ember/internal/config"
	"github.com/emberengine/ember/internal/diagnostics"
	"github.com/emberengine/ember/internal/engineerr"
	"github.com/emberengine/ember/internal/logging"
	"github.com/emberengine/ember/internal/mempool"
	"github.com/emberengine/ember/internal/metrics"
	"github.com/emberengine/ember/internal/platform"
	"github.com/emberengine/ember/internal/pluginhost"
	"github.com/emberengine/ember/internal/ratelimit"
	"github.com/emberengine/ember/internal/scene"
	"github.com/emberengine/ember/internal/sysreg"
)

// Engine owns every core subsystem for one run of the loop.
type Engine struct {
	id       string
	cfg      config.EngineConfig
	plat     platform.Platform
	pool     *mempool.Pool
	systems  *sysreg.Registry
	plugins  *pluginhost.Manager
	scenes   *scene.Manager
	limiter  *ratelimit.FrameLimiter
	diag     *diagnostics.Scheduler
	log      *logging.Logger
	metrics  *metrics.Collector
	lastTick time.Time
}

// New constructs an Engine from cfg and plat but does not yet reserve any
// resources; call Init to do that.
func New(cfg config.EngineConfig, plat platform.Platform) *Engine {
	return &Engine{
		id:      uuid.NewString(),
		cfg:     cfg,
		plat:    plat,
		systems: sysreg.New(),
		plugins: pluginhost.NewManager(),
		limiter: ratelimit.NewFrameLimiter(cfg.MaxFPS),
		log:     logging.NewFromEnv("engine"),
	}
}

// AttachMetricsRegistry builds and registers this Engine's metrics.Collector
// against reg. Must be called before Init if metrics are wanted at all.
func (e *Engine) AttachMetricsRegistry(reg prometheus.Registerer) {
	e.metrics = metrics.Init(e.id, reg)
	e.systems.AttachMetrics(e.metrics)
}

// ID returns this engine instance's generated identifier.
func (e *Engine) ID() string { return e.id }

// Systems exposes the system registry for callers to Register against.
func (e *Engine) Systems() *sysreg.Registry { return e.systems }

// Plugins exposes the plugin manager for callers to Load plugins into.
func (e *Engine) Plugins() *pluginhost.Manager { return e.plugins }

// Scenes exposes the scene manager for callers to Switch scenes on. It is
// nil until Init has run, since scenes borrow component storage from the
// pool Init reserves.
func (e *Engine) Scenes() *scene.Manager { return e.scenes }

// Pool exposes the memory pool once Init has run; nil beforehand.
func (e *Engine) Pool() *mempool.Pool { return e.pool }

// Init reserves the memory pool and, if configured, starts the diagnostics
// scheduler. Must be called exactly once before Run.
func (e *Engine) Init() error {
	if e.cfg.MemoryPoolSize == 0 {
		return engineerr.Invalid("MemoryPoolSize", "must be greater than zero")
	}

	pool, err := mempool.Init(mempool.Config{
		Size:               e.cfg.MemoryPoolSize,
		RecordPoolCapacity: e.cfg.RecordPoolCapacity,
	})
	if err != nil {
		return err
	}
	pool.AttachLogger(e.log)
	if e.metrics != nil {
		pool.AttachMetrics(e.metrics)
	}
	e.pool = pool
	e.scenes = scene.NewManager(pool)

	if e.cfg.DiagnosticsInterval > 0 {
		e.diag = diagnostics.New(e.log)
		interval := e.cfg.DiagnosticsInterval.String()
		if err := e.diag.AttachLeakScan(interval, e.pool); err != nil {
			return engineerr.Wrap(engineerr.Generic, "failed to schedule leak scan", err)
		}
		if e.metrics != nil {
			if err := e.diag.AttachMetricsSnapshot(interval, e.pool, e.metrics); err != nil {
				return engineerr.Wrap(engineerr.Generic, "failed to schedule metrics snapshot", err)
			}
		}
		e.diag.Start()
	}

	e.lastTick = e.plat.MonotonicNow()
	return nil
}

// Run drives the loop until ctx is cancelled or the platform reports it
// should stop, then calls Shutdown. Returns NotInitialized if Init has not
// run; otherwise returns Shutdown's result. A failed frame is logged and the
// loop continues.
func (e *Engine) Run(ctx context.Context) error {
	if e.pool == nil {
		return engineerr.Uninitialized("engine")
	}

	for e.plat.IsRunning() {
		select {
		case <-ctx.Done():
			return e.Shutdown()
		default:
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return e.Shutdown()
		}

		frameStart := e.plat.MonotonicNow()
		if err := e.tick(ctx, frameStart); err != nil {
			e.log.WithError(err).Error("frame failed")
		}
		if e.metrics != nil {
			e.metrics.ObserveFrame(e.plat.MonotonicNow().Sub(frameStart).Seconds())
		}
	}

	return e.Shutdown()
}

func (e *Engine) tick(ctx context.Context, now time.Time) error {
	if err := e.plat.PollEvents(ctx); err != nil {
		return err
	}

	dt := float32(now.Sub(e.lastTick).Seconds())
	e.lastTick = now

	e.systems.Update(dt)
	for _, err := range e.plugins.UpdateAll(dt) {
		e.log.WithError(err).Warn("plugin update failed")
	}

	if r := e.plat.Renderer(); r != nil {
		if err := r.Clear(); err != nil {
			return err
		}
		if err := r.Present(); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown tears down subsystems in reverse dependency order: diagnostics
// first (so it stops touching the pool), then every running plugin, then
// the memory pool last (after everything that might still hold a handle
// into it has stopped).
func (e *Engine) Shutdown() error {
	if e.diag != nil {
		e.diag.Stop()
	}
	for _, name := range e.plugins.Names() {
		if err := e.plugins.Unload(name); err != nil {
			e.log.WithError(err).Warn("plugin failed to unload cleanly during shutdown")
		}
	}
	if e.pool != nil {
		e.pool.Shutdown()
	}
	return nil
}
