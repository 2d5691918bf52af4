package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracerDisabledByDefault(t *testing.T) {
	t.Setenv("EMBER_TRACE", "")
	tr := NewTracer()
	require.False(t, tr.Enabled())
}

func TestTracerEnabledViaEnv(t *testing.T) {
	t.Setenv("EMBER_TRACE", "1")
	tr := NewTracer()
	require.True(t, tr.Enabled())
}

func TestNilTracerIsSafeToCall(t *testing.T) {
	var tr *Tracer
	require.False(t, tr.Enabled())
	tr.Alloc("ENGINE", 16, 0)
	tr.Free("ENGINE", 0)
	tr.ComponentOp("add", 1, 2)
}
