package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.QueriesExecuted.Inc()
	m.QueriesFailed.Inc()
	m.RowsProduced.Add(5)
	m.OperatorPulls.WithLabelValues("Filter").Inc()
	m.OperatorPulls.WithLabelValues("Filter").Inc()
	m.MatrixMultiplies.Inc()
	m.ReadersActive.Set(2)
	m.QueryDuration.Observe(0.01)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueriesExecuted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueriesFailed))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.RowsProduced))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.OperatorPulls.WithLabelValues("Filter")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MatrixMultiplies))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ReadersActive))
}

func TestGatherProducesExpectedMetricFamilies(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["graphcypher_queries_executed_total"])
	assert.True(t, names["graphcypher_query_duration_seconds"])
}

func TestReadersActiveGaugeTracksConcurrentReaders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ReadersActive.Inc()
	m.ReadersActive.Inc()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ReadersActive))
	m.ReadersActive.Dec()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReadersActive))
}
