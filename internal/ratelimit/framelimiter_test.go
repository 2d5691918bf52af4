package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnboundedLimiterNeverBlocks(t *testing.T) {
	f := NewFrameLimiter(0)
	require.True(t, f.Allow())
	require.NoError(t, f.Wait(context.Background()))
}

func TestBoundedLimiterAllowsFirstFrame(t *testing.T) {
	f := NewFrameLimiter(60)
	require.True(t, f.Allow())
}

func TestSetFPSZeroDisablesLimiter(t *testing.T) {
	f := NewFrameLimiter(30)
	f.SetFPS(0)
	require.True(t, f.Allow())
}

func TestSetFPSFromUnboundedEnablesLimiter(t *testing.T) {
	f := NewFrameLimiter(0)
	f.SetFPS(1)
	require.NotNil(t, f.limiter)
}
