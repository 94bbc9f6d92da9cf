// Package metrics wires github.com/prometheus/client_golang counters,
// histograms, and a gauge onto the engine's query lifecycle, per
// SPEC_FULL's domain-stack wiring: queries executed, rows produced,
// operator pulls (labeled by operator kind), matrix mxm calls, and a
// gauge of queries currently holding the graph store's read lock.
// Grounded on AKJUS-bsc-erigon and dolthub-go-mysql-server's use of
// client_golang for service-level instrumentation.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "graphcypher"

// Metrics is the full set of collectors cmd/graphqld's /metrics handler
// exposes. Zero value is not usable; use New.
type Metrics struct {
	QueriesExecuted  prometheus.Counter
	QueriesFailed    prometheus.Counter
	RowsProduced     prometheus.Counter
	OperatorPulls    *prometheus.CounterVec
	MatrixMultiplies prometheus.Counter
	ReadersActive    prometheus.Gauge
	QueryDuration    prometheus.Histogram
}

// New constructs and registers every collector against reg. Passing a
// fresh prometheus.NewRegistry() keeps test instances isolated from the
// global default registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_executed_total",
			Help:      "Total number of queries that completed without error.",
		}),
		QueriesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_failed_total",
			Help:      "Total number of queries that ended in an error.",
		}),
		RowsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_produced_total",
			Help:      "Total number of result rows produced across all queries.",
		}),
		OperatorPulls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operator_pulls_total",
			Help:      "Total number of Next() calls per operator kind.",
		}, []string{"operator"}),
		MatrixMultiplies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matrix_mxm_total",
			Help:      "Total number of masked mxm/vxm/mxv kernel calls.",
		}),
		ReadersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "readers_active",
			Help:      "Number of queries currently holding the graph store's read lock.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query wall-clock duration including planning.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.QueriesExecuted,
		m.QueriesFailed,
		m.RowsProduced,
		m.OperatorPulls,
		m.MatrixMultiplies,
		m.ReadersActive,
		m.QueryDuration,
	)
	return m
}
