package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emberengine/ember/internal/config"
	"github.com/emberengine/ember/internal/platform"
)

func TestInitRequiresPositivePoolSize(t *testing.T) {
	e := New(config.EngineConfig{MemoryPoolSize: 0}, platform.NewHeadless())
	err := e.Init()
	require.Error(t, err)
}

func TestRunFailsWithoutInit(t *testing.T) {
	e := New(config.EngineConfig{MemoryPoolSize: 4096}, platform.NewHeadless())
	err := e.Run(context.Background())
	require.Error(t, err)
}

func TestRunStopsWhenPlatformRequestsShutdown(t *testing.T) {
	plat := platform.NewHeadless()
	e := New(config.EngineConfig{MemoryPoolSize: 4096}, plat)
	require.NoError(t, e.Init())

	ticks := 0
	require.True(t, e.Systems().Register("stopper", func(dt float32) {
		ticks++
		if ticks >= 3 {
			plat.RequestShutdown()
		}
	}))

	err := e.Run(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, ticks, 3)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	plat := platform.NewHeadless()
	e := New(config.EngineConfig{MemoryPoolSize: 4096}, plat)
	require.NoError(t, e.Init())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := e.Run(ctx)
	require.NoError(t, err)
}
