// Package diagnostics runs periodic, read-only health checks against a
// running engine: a leak scan and a metrics snapshot, on a cron schedule,
// for long-running sessions where Shutdown may be hours away.
package diagnostics

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/emberengine/ember/internal/logging"
	"github.com/emberengine/ember/internal/mempool"
	"github.com/emberengine/ember/internal/metrics"
)

// Scheduler wraps a cron.Cron dedicated to diagnostics jobs. Its jobs must
// only call read-only, already mutex-guarded operations: it runs on its
// own goroutine concurrently with the main engine loop.
type Scheduler struct {
	cron *cron.Cron
	log  *logging.Logger
}

// New creates a Scheduler with per-second granularity, matching the
// sub-minute intervals a frame-rate-scale engine needs.
func New(log *logging.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log,
	}
}

// everySpec renders a "@every <duration>" cron spec, the form cron/v3
// accepts for fixed-interval (rather than wall-clock-aligned) schedules.
func everySpec(interval string) string {
	return fmt.Sprintf("@every %s", interval)
}

// AttachLeakScan registers a job that runs pool.DetectLeaks every interval
// and logs a warning line per leaked tag.
func (s *Scheduler) AttachLeakScan(interval string, pool *mempool.Pool) error {
	_, err := s.cron.AddFunc(everySpec(interval), func() {
		leaks := pool.DetectLeaks()
		if s.log == nil {
			return
		}
		for _, lr := range leaks {
			s.log.Leak(lr.Tag.String(), lr.Count, lr.Bytes)
		}
	})
	return err
}

// AttachMetricsSnapshot registers a job that refreshes the pool occupancy
// gauges on collector every interval, independent of the allocate/free
// path (useful when the loop is otherwise idle).
func (s *Scheduler) AttachMetricsSnapshot(interval string, pool *mempool.Pool, collector *metrics.Collector) error {
	_, err := s.cron.AddFunc(everySpec(interval), func() {
		stats := pool.Stats()
		collector.SetPoolOccupancy(stats.BytesUsed, stats.BytesTotal)
	})
	return err
}

// Start begins running scheduled jobs on a background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop blocks until any in-flight job completes, then stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
