package mempool

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocateAndFreeRoundTrip(t *testing.T) {
	p, err := Init(Config{Size: 4096})
	require.NoError(t, err)

	h, err := p.Allocate(TagComponent, 64)
	require.NoError(t, err)
	require.True(t, h.Valid())

	require.NoError(t, p.Set(h, []byte("hello")))
	data, err := p.Bytes(h)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data[:5]))

	require.NoError(t, p.Free(h))
}

func TestDoubleFreeDetected(t *testing.T) {
	p, err := Init(Config{Size: 4096})
	require.NoError(t, err)

	h, err := p.Allocate(TagString, 16)
	require.NoError(t, err)
	require.NoError(t, p.Free(h))

	err = p.Free(h)
	require.Error(t, err)
}

func TestAllocationFailsWhenPoolExhausted(t *testing.T) {
	p, err := Init(Config{Size: 64})
	require.NoError(t, err)

	_, err = p.Allocate(TagEngine, 1024)
	require.Error(t, err)
}

func TestFreedSpaceIsReused(t *testing.T) {
	p, err := Init(Config{Size: 256})
	require.NoError(t, err)

	h1, err := p.Allocate(TagArray, 32)
	require.NoError(t, err)
	before := p.Stats()

	require.NoError(t, p.Free(h1))

	h2, err := p.Allocate(TagArray, 32)
	require.NoError(t, err)
	after := p.Stats()

	require.Equal(t, before.BytesUsed, after.BytesUsed)
	require.True(t, h2.Valid())
}

func TestDetectLeaksReportsLiveAllocations(t *testing.T) {
	p, err := Init(Config{Size: 4096})
	require.NoError(t, err)

	_, err = p.Allocate(TagTexture, 128)
	require.NoError(t, err)
	_, err = p.Allocate(TagTexture, 128)
	require.NoError(t, err)

	leaks := p.DetectLeaks()
	require.Len(t, leaks, 1)
	require.Equal(t, TagTexture, leaks[0].Tag)
	require.Equal(t, 2, leaks[0].Count)
}

func TestZeroSizeAllocationRejected(t *testing.T) {
	p, err := Init(Config{Size: 4096})
	require.NoError(t, err)

	_, err = p.Allocate(TagNone, 0)
	require.Error(t, err)
}

func TestCopyBetweenHandles(t *testing.T) {
	p, err := Init(Config{Size: 4096})
	require.NoError(t, err)

	src, err := p.Allocate(TagString, 16)
	require.NoError(t, err)
	dst, err := p.Allocate(TagString, 16)
	require.NoError(t, err)

	require.NoError(t, p.Set(src, []byte("0123456789abcdef")))
	require.NoError(t, p.Copy(dst, src, 16))

	dstData, err := p.Bytes(dst)
	require.NoError(t, err)
	srcData, err := p.Bytes(src)
	require.NoError(t, err)
	require.Equal(t, srcData, dstData)
}

func TestAllocateAlignedRejectsNonPowerOfTwo(t *testing.T) {
	p, err := Init(Config{Size: 4096})
	require.NoError(t, err)

	_, err = p.AllocateAligned(TagArena, 32, 3)
	require.Error(t, err)
}

func TestAllocateAlignedSatisfiesArbitraryAlignment(t *testing.T) {
	p, err := Init(Config{Size: 8192})
	require.NoError(t, err)

	for _, alignment := range []uint64{8, 16, 32, 64, 128} {
		h, err := p.AllocateAligned(TagArena, 48, alignment)
		require.NoError(t, err)
		require.True(t, h.Valid())

		data, err := p.Bytes(h)
		require.NoError(t, err)
		addr := uintptr(unsafe.Pointer(&data[0]))
		require.Equal(t, uintptr(0), addr%uintptr(alignment))
	}
}

func TestAllocateUsesStandardAlignment(t *testing.T) {
	p, err := Init(Config{Size: 4096})
	require.NoError(t, err)

	h, err := p.Allocate(TagArena, 17)
	require.NoError(t, err)
	data, err := p.Bytes(h)
	require.NoError(t, err)
	addr := uintptr(unsafe.Pointer(&data[0]))
	require.Equal(t, uintptr(0), addr%uintptr(StandardAlignment))
}
