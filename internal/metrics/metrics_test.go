package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestMustRegisterSucceedsOnce(t *testing.T) {
	c := New("test-instance")
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { c.MustRegister(reg) })
}

func TestSetPoolOccupancyUpdatesGauges(t *testing.T) {
	c := New("test-instance")
	c.SetPoolOccupancy(128, 1024)

	require.Equal(t, float64(128), gaugeValue(t, c.PoolBytesUsed))
	require.Equal(t, float64(1024), gaugeValue(t, c.PoolBytesTotal))
}

func TestRecordAllocationIncrementsCounter(t *testing.T) {
	c := New("test-instance")
	c.RecordAllocation("ENGINE")
	c.RecordAllocation("ENGINE")

	m := &dto.Metric{}
	require.NoError(t, c.AllocationsTotal.WithLabelValues("ENGINE").Write(m))
	require.Equal(t, float64(2), m.GetCounter().GetValue())
}

func TestNilCollectorMethodsAreNoOps(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.RecordAllocation("ENGINE")
		c.RecordFree("ENGINE")
		c.SetPoolOccupancy(0, 0)
		c.SetLeaked("ENGINE", 0)
		c.ObserveFrame(0.016)
	})
}

func TestEnabledDefaultsTrue(t *testing.T) {
	t.Setenv("EMBER_METRICS_ENABLED", "")
	require.True(t, Enabled())
}

func TestEnabledRespectsOptOut(t *testing.T) {
	t.Setenv("EMBER_METRICS_ENABLED", "0")
	require.False(t, Enabled())
}
