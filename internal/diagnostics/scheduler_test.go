package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberengine/ember/internal/mempool"
)

func TestAttachLeakScanAcceptsValidInterval(t *testing.T) {
	pool, err := mempool.Init(mempool.Config{Size: 4096})
	require.NoError(t, err)

	s := New(nil)
	require.NoError(t, s.AttachLeakScan("1s", pool))
}

func TestAttachLeakScanRejectsMalformedInterval(t *testing.T) {
	pool, err := mempool.Init(mempool.Config{Size: 4096})
	require.NoError(t, err)

	s := New(nil)
	err = s.AttachLeakScan("not-a-duration", pool)
	require.Error(t, err)
}

func TestStartStopDoesNotPanic(t *testing.T) {
	pool, err := mempool.Init(mempool.Config{Size: 4096})
	require.NoError(t, err)

	s := New(nil)
	require.NoError(t, s.AttachLeakScan("1h", pool))
	s.Start()
	s.Stop()
}
