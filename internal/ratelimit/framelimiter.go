// Package ratelimit throttles the engine loop to a target frame rate,
// reusing the teacher's infrastructure/ratelimit pattern of wrapping
// golang.org/x/time/rate for a different resource: frames instead of
// HTTP requests.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// FrameLimiter paces the engine loop to at most fps frame starts per
// second. An fps of zero disables pacing entirely.
type FrameLimiter struct {
	limiter *rate.Limiter
}

// NewFrameLimiter builds a FrameLimiter for the given target frame rate.
// A burst of 1 means frames are paced evenly rather than allowed to batch.
func NewFrameLimiter(fps uint32) *FrameLimiter {
	if fps == 0 {
		return &FrameLimiter{limiter: nil}
	}
	return &FrameLimiter{limiter: rate.NewLimiter(rate.Limit(fps), 1)}
}

// Wait blocks until the next frame is permitted to start, or ctx is done.
func (f *FrameLimiter) Wait(ctx context.Context) error {
	if f.limiter == nil {
		return nil
	}
	return f.limiter.Wait(ctx)
}

// Allow reports whether a frame may start immediately without blocking.
func (f *FrameLimiter) Allow() bool {
	if f.limiter == nil {
		return true
	}
	return f.limiter.Allow()
}

// SetFPS retunes the limiter at runtime; zero disables pacing.
func (f *FrameLimiter) SetFPS(fps uint32) {
	if fps == 0 {
		f.limiter = nil
		return
	}
	if f.limiter == nil {
		f.limiter = rate.NewLimiter(rate.Limit(fps), 1)
		return
	}
	f.limiter.SetLimit(rate.Limit(fps))
}
