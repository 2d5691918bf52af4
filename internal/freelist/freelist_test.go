package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateAndFree(t *testing.T) {
	fl, err := Create(1024)
	require.NoError(t, err)

	b, err := fl.Allocate(128)
	require.NoError(t, err)
	require.True(t, b.Valid())

	require.NoError(t, fl.Free(b))
	require.Equal(t, uint64(1024), fl.FreeBytes())
}

func TestAllocateFailsWhenExhausted(t *testing.T) {
	fl, err := Create(64)
	require.NoError(t, err)

	_, err = fl.Allocate(128)
	require.Error(t, err)
}

func TestNodeSplitsOnPartialAllocation(t *testing.T) {
	fl, err := Create(1024)
	require.NoError(t, err)

	_, err = fl.Allocate(128)
	require.NoError(t, err)

	require.Equal(t, uint64(896), fl.FreeBytes())
}

func TestFreeNeverNoOps(t *testing.T) {
	fl, err := Create(256)
	require.NoError(t, err)

	b1, err := fl.Allocate(64)
	require.NoError(t, err)
	b2, err := fl.Allocate(64)
	require.NoError(t, err)

	require.NoError(t, fl.Free(b1))
	require.NoError(t, fl.Free(b2))
	require.Equal(t, uint64(256), fl.FreeBytes())
}

func TestBytesReflectsAllocatedSpan(t *testing.T) {
	fl, err := Create(128)
	require.NoError(t, err)

	b, err := fl.Allocate(32)
	require.NoError(t, err)

	data, err := fl.Bytes(b)
	require.NoError(t, err)
	require.Len(t, data, 32)
}
