// Package metrics exposes the engine's runtime state as Prometheus
// collectors: pool occupancy, per-tag allocation counts, leak counts, ECS
// population, plugin transitions and loop frame timing.
package metrics

import (
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector aggregates every Prometheus collector the engine core exposes.
// It is registered once against a caller-supplied prometheus.Registerer;
// this package never starts its own HTTP server.
type Collector struct {
	PoolBytesUsed  prometheus.Gauge
	PoolBytesTotal prometheus.Gauge
	AllocationsTotal *prometheus.CounterVec // labeled by tag
	FreesTotal       *prometheus.CounterVec // labeled by tag
	LeakedBlocks     *prometheus.GaugeVec   // labeled by tag

	EntitiesAlive   prometheus.Gauge
	ComponentsAlive *prometheus.GaugeVec // labeled by component type name

	PluginTransitions *prometheus.CounterVec // labeled by plugin, from, to

	FrameDuration   prometheus.Histogram
	SystemDuration  *prometheus.HistogramVec // labeled by system name

	EngineInfo *prometheus.GaugeVec
}

// New builds a Collector with the given engine instance name baked into
// EngineInfo, but does not register it anywhere.
func New(instance string) *Collector {
	c := &Collector{
		PoolBytesUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ember_pool_bytes_used",
			Help: "Bytes currently allocated from the memory pool.",
		}),
		PoolBytesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ember_pool_bytes_total",
			Help: "Total capacity of the memory pool in bytes.",
		}),
		AllocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ember_pool_allocations_total",
			Help: "Total allocations served by the memory pool, by tag.",
		}, []string{"tag"}),
		FreesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ember_pool_frees_total",
			Help: "Total frees processed by the memory pool, by tag.",
		}, []string{"tag"}),
		LeakedBlocks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ember_pool_leaked_blocks",
			Help: "Blocks still live at the most recent DetectLeaks scan, by tag.",
		}, []string{"tag"}),
		EntitiesAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ember_ecs_entities_alive",
			Help: "Number of live entities in the world.",
		}),
		ComponentsAlive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ember_ecs_components_alive",
			Help: "Number of live components, by component type name.",
		}, []string{"component_type"}),
		PluginTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ember_plugin_transitions_total",
			Help: "Plugin FSM state transitions, by plugin, from-state and to-state.",
		}, []string{"plugin", "from", "to"}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ember_frame_duration_seconds",
			Help:    "Wall time of a single poll/update/render/present cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		SystemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ember_system_duration_seconds",
			Help:    "Wall time of a single registered system's Update call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"system"}),
		EngineInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ember_engine_info",
			Help: "Static engine instance metadata; value is always 1.",
		}, []string{"instance"}),
	}
	c.EngineInfo.WithLabelValues(instance).Set(1)
	return c
}

// MustRegister registers every collector against reg, panicking on
// duplicate registration, matching the teacher's NewWithRegistry contract.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		c.PoolBytesUsed,
		c.PoolBytesTotal,
		c.AllocationsTotal,
		c.FreesTotal,
		c.LeakedBlocks,
		c.EntitiesAlive,
		c.ComponentsAlive,
		c.PluginTransitions,
		c.FrameDuration,
		c.SystemDuration,
		c.EngineInfo,
	)
}

// RecordAllocation increments the allocation counter for tag.
func (c *Collector) RecordAllocation(tag string) {
	if c == nil {
		return
	}
	c.AllocationsTotal.WithLabelValues(tag).Inc()
}

// RecordFree increments the free counter for tag.
func (c *Collector) RecordFree(tag string) {
	if c == nil {
		return
	}
	c.FreesTotal.WithLabelValues(tag).Inc()
}

// SetPoolOccupancy sets the used/total pool gauges.
func (c *Collector) SetPoolOccupancy(used, total uint64) {
	if c == nil {
		return
	}
	c.PoolBytesUsed.Set(float64(used))
	c.PoolBytesTotal.Set(float64(total))
}

// SetLeaked sets the leaked-block gauge for tag.
func (c *Collector) SetLeaked(tag string, count int) {
	if c == nil {
		return
	}
	c.LeakedBlocks.WithLabelValues(tag).Set(float64(count))
}

// SetECSPopulation updates entity and component population gauges.
func (c *Collector) SetECSPopulation(entities int, componentsByType map[string]int) {
	if c == nil {
		return
	}
	c.EntitiesAlive.Set(float64(entities))
	for name, n := range componentsByType {
		c.ComponentsAlive.WithLabelValues(name).Set(float64(n))
	}
}

// RecordPluginTransition increments the plugin transition counter.
func (c *Collector) RecordPluginTransition(plugin, from, to string) {
	if c == nil {
		return
	}
	c.PluginTransitions.WithLabelValues(plugin, from, to).Inc()
}

// ObserveFrame records one frame's duration in seconds.
func (c *Collector) ObserveFrame(seconds float64) {
	if c == nil {
		return
	}
	c.FrameDuration.Observe(seconds)
}

// ObserveSystem records one system's Update duration in seconds.
func (c *Collector) ObserveSystem(name string, seconds float64) {
	if c == nil {
		return
	}
	c.SystemDuration.WithLabelValues(name).Observe(seconds)
}

// Enabled reports whether EMBER_METRICS_ENABLED is not explicitly "0",
// mirroring the teacher's opt-out environment switch.
func Enabled() bool {
	return os.Getenv("EMBER_METRICS_ENABLED") != "0"
}

var (
	globalMu   sync.Mutex
	globalColl *Collector
)

// Init sets the process-wide Collector, registering it against reg.
func Init(instance string, reg prometheus.Registerer) *Collector {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalColl = New(instance)
	globalColl.MustRegister(reg)
	return globalColl
}

// Global returns the process-wide Collector, or nil if Init was never called.
func Global() *Collector {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalColl
}
