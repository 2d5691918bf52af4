package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberengine/ember/internal/mempool"
)

type transform struct {
	X, Y, Z float32
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	pool, err := mempool.Init(mempool.Config{Size: 1 << 16})
	require.NoError(t, err)
	return NewWorld(pool)
}

func TestCreateAndDestroyEntity(t *testing.T) {
	w := newTestWorld(t)
	e := w.CreateEntity()
	require.True(t, w.IsAlive(e))
	require.Equal(t, 1, w.EntityCount())

	require.True(t, w.DestroyEntity(e))
	require.False(t, w.IsAlive(e))
	require.Equal(t, 0, w.EntityCount())
}

func TestEntityIDReusedAfterDestroy(t *testing.T) {
	w := newTestWorld(t)
	e1 := w.CreateEntity()
	w.DestroyEntity(e1)
	e2 := w.CreateEntity()
	require.Equal(t, e1, e2)
}

func TestCreateEntityReturnsSentinelAtCapacity(t *testing.T) {
	pool, err := mempool.Init(mempool.Config{Size: 1 << 16})
	require.NoError(t, err)
	w := newWorldWithLimits(pool, 2, MaxComponentTypes)

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	require.NotEqual(t, InvalidEntity, e1)
	require.NotEqual(t, InvalidEntity, e2)

	e3 := w.CreateEntity()
	require.Equal(t, InvalidEntity, e3)
	require.Equal(t, 2, w.EntityCount())
}

func TestRegisterComponentReturnsSentinelAtCapacity(t *testing.T) {
	pool, err := mempool.Init(mempool.Config{Size: 1 << 16})
	require.NoError(t, err)
	w := newWorldWithLimits(pool, MaxEntities, 1)

	ct1, err := RegisterComponent[transform](w, "transform")
	require.NoError(t, err)
	require.NotEqual(t, InvalidComponentType, ct1)

	ct2, err := RegisterComponent[transform](w, "other")
	require.Error(t, err)
	require.Equal(t, InvalidComponentType, ct2)
}

func TestAddGetRemoveComponent(t *testing.T) {
	w := newTestWorld(t)
	ctTransform, err := RegisterComponent[transform](w, "transform")
	require.NoError(t, err)

	e := w.CreateEntity()
	require.NoError(t, AddComponent(w, ctTransform, e, transform{X: 1, Y: 2, Z: 3}))

	got, ok := GetComponent[transform](w, ctTransform, e)
	require.True(t, ok)
	require.Equal(t, float32(1), got.X)

	require.True(t, RemoveComponent[transform](w, ctTransform, e))
	_, ok = GetComponent[transform](w, ctTransform, e)
	require.False(t, ok)
}

func TestComponentPayloadAllocatesFromPool(t *testing.T) {
	pool, err := mempool.Init(mempool.Config{Size: 1 << 16})
	require.NoError(t, err)
	w := NewWorld(pool)
	ctTransform, err := RegisterComponent[transform](w, "transform")
	require.NoError(t, err)

	before := pool.Stats()
	e := w.CreateEntity()
	require.NoError(t, AddComponent(w, ctTransform, e, transform{X: 1}))
	after := pool.Stats()

	require.Greater(t, after.BytesUsed, before.BytesUsed)
	require.Equal(t, before.LiveCount+1, after.LiveCount)

	leaks := pool.DetectLeaks()
	require.Len(t, leaks, 1)
	require.Equal(t, mempool.TagComponent, leaks[0].Tag)

	require.True(t, RemoveComponent[transform](w, ctTransform, e))
	require.Empty(t, pool.DetectLeaks())
}

func TestDestroyEntityRemovesComponents(t *testing.T) {
	w := newTestWorld(t)
	ctTransform, err := RegisterComponent[transform](w, "transform")
	require.NoError(t, err)

	e := w.CreateEntity()
	require.NoError(t, AddComponent(w, ctTransform, e, transform{}))
	require.Equal(t, 1, w.ComponentCount(ctTransform))

	w.DestroyEntity(e)
	require.Equal(t, 0, w.ComponentCount(ctTransform))
}

func TestSwapRemovePreservesOtherEntityData(t *testing.T) {
	w := newTestWorld(t)
	ctTransform, err := RegisterComponent[transform](w, "transform")
	require.NoError(t, err)

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	require.NoError(t, AddComponent(w, ctTransform, e1, transform{X: 1}))
	require.NoError(t, AddComponent(w, ctTransform, e2, transform{X: 2}))

	require.True(t, RemoveComponent[transform](w, ctTransform, e1))

	got, ok := GetComponent[transform](w, ctTransform, e2)
	require.True(t, ok)
	require.Equal(t, float32(2), got.X)
}

func TestAddComponentOnDeadEntityFails(t *testing.T) {
	w := newTestWorld(t)
	ctTransform, err := RegisterComponent[transform](w, "transform")
	require.NoError(t, err)

	err = AddComponent(w, ctTransform, Entity(999), transform{})
	require.Error(t, err)
}
