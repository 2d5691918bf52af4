package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignedAllocRejectsNonPowerOfTwo(t *testing.T) {
	h := NewHeadless()
	_, err := h.AlignedAlloc(64, 3)
	require.Error(t, err)
}

func TestAlignedAllocReturnsRequestedLength(t *testing.T) {
	h := NewHeadless()
	buf, err := h.AlignedAlloc(128, 16)
	require.NoError(t, err)
	require.Len(t, buf, 128)
}

func TestIsRunningUntilShutdownRequested(t *testing.T) {
	h := NewHeadless()
	require.True(t, h.IsRunning())
	h.RequestShutdown()
	require.False(t, h.IsRunning())
}

func TestPollEventsRespectsContextCancellation(t *testing.T) {
	h := NewHeadless()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, h.PollEvents(ctx))
}

func TestHeadlessHasNoRenderer(t *testing.T) {
	h := NewHeadless()
	require.Nil(t, h.Renderer())
}

func TestLibOpenMissingFileFails(t *testing.T) {
	h := NewHeadless()
	_, err := h.LibOpen("/nonexistent/path/to/plugin.so")
	require.Error(t, err)
}
