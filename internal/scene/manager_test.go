package scene

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberengine/ember/internal/mempool"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	pool, err := mempool.Init(mempool.Config{Size: 1 << 16})
	require.NoError(t, err)
	return NewManager(pool)
}

func TestSwitchCreatesWorldOnFirstUse(t *testing.T) {
	m := newTestManager(t)
	w := m.Switch("menu")
	require.NotNil(t, w)
	require.Equal(t, "menu", m.ActiveName())
}

func TestSwitchPreservesStateAcrossReturns(t *testing.T) {
	m := newTestManager(t)
	w1 := m.Switch("level-1")
	e := w1.CreateEntity()

	m.Switch("level-2")
	w1again := m.Switch("level-1")

	require.True(t, w1again.IsAlive(e))
	require.Same(t, w1, w1again)
}

func TestUnloadDestroysScene(t *testing.T) {
	m := newTestManager(t)
	m.Switch("level-1")

	require.NoError(t, m.Unload("level-1"))
	require.Equal(t, "", m.ActiveName())

	err := m.Unload("level-1")
	require.Error(t, err)
}

func TestUnloadInactiveSceneLeavesActiveAlone(t *testing.T) {
	m := newTestManager(t)
	m.Switch("a")
	m.Switch("b")

	require.NoError(t, m.Unload("a"))
	require.Equal(t, "b", m.ActiveName())
}
