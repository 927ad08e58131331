// Package metrics holds the Prometheus collectors of the records store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors groups the store's metrics. A nil *Collectors is valid and
// records nothing.
type Collectors struct {
	// QueryDuration is the latency of read statements by entity and
	// operation (query, count).
	QueryDuration *prometheus.HistogramVec
	// QueryErrors counts failed statements by entity and operation.
	QueryErrors *prometheus.CounterVec
	// BulkChunks counts executed bulk insert statements by entity.
	BulkChunks *prometheus.CounterVec
	// BulkRows counts imported rows by entity and outcome (inserted,
	// ignored).
	BulkRows *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		QueryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wormdb_query_duration_seconds",
				Help:    "Latency of filtered reads in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity", "op"},
		),
		QueryErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wormdb_query_errors_total",
				Help: "Total number of failed statements",
			},
			[]string{"entity", "op"},
		),
		BulkChunks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wormdb_bulk_chunks_total",
				Help: "Total number of bulk insert statements executed",
			},
			[]string{"entity"},
		),
		BulkRows: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wormdb_bulk_rows_total",
				Help: "Total number of rows submitted to bulk imports",
			},
			[]string{"entity", "outcome"},
		),
	}
}

// ObserveQuery records one read statement.
func (c *Collectors) ObserveQuery(entity, op string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.QueryDuration.WithLabelValues(entity, op).Observe(elapsed.Seconds())
	if err != nil {
		c.QueryErrors.WithLabelValues(entity, op).Inc()
	}
}

// ObserveError counts a failed write statement.
func (c *Collectors) ObserveError(entity, op string) {
	if c == nil {
		return
	}
	c.QueryErrors.WithLabelValues(entity, op).Inc()
}

// ObserveImport records a committed bulk import.
func (c *Collectors) ObserveImport(entity string, chunks, rows int, inserted int64) {
	if c == nil {
		return
	}
	c.BulkChunks.WithLabelValues(entity).Add(float64(chunks))
	c.BulkRows.WithLabelValues(entity, "inserted").Add(float64(inserted))
	c.BulkRows.WithLabelValues(entity, "ignored").Add(float64(int64(rows) - inserted))
}
