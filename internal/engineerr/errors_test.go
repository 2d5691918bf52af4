package engineerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCarriesKindAndMessage(t *testing.T) {
	err := New(InvalidArgument, "bad input")
	require.Equal(t, InvalidArgument, err.Kind)
	require.Contains(t, err.Error(), "bad input")
	require.Contains(t, err.Error(), string(InvalidArgument))
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := Wrap(Generic, "wrapped", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, cause, err.Unwrap())
}

func TestOfExtractsErrorFromChain(t *testing.T) {
	err := New(CorruptionDetected, "bad header")
	wrapped := errors.New("context: " + err.Error())

	require.Nil(t, Of(wrapped))
	require.NotNil(t, Of(err))
	require.Equal(t, CorruptionDetected, Of(err).Kind)
}

func TestIsMatchesKind(t *testing.T) {
	err := Uninitialized("mempool")
	require.True(t, Is(err, NotInitialized))
	require.False(t, Is(err, AllocationFailed))
}

func TestWithDetailIsChainable(t *testing.T) {
	err := Invalid("size", "must be positive").WithDetail("given", -1)
	require.Equal(t, "size", err.Details["parameter"])
	require.Equal(t, -1, err.Details["given"])
}

func TestConstructorsSetExpectedKinds(t *testing.T) {
	require.Equal(t, InvalidArgument, Invalid("x", "y").Kind)
	require.Equal(t, AllocationFailed, AllocFailed("ENGINE", 16).Kind)
	require.Equal(t, NotInitialized, Uninitialized("platform").Kind)
	require.Equal(t, SymbolMissing, MissingSymbol("p.so", "PluginInit").Kind)
	require.Equal(t, CorruptionDetected, Corrupted("magic mismatch").Kind)
}
