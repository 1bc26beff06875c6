// Package metrics provides observability for the repository layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks repository operation counts and durations, labeled by store
// and operation so one instance serves every repository.
type Metrics struct {
	Operations *prometheus.CounterVec
	Durations  *prometheus.HistogramVec
}

// New creates a Metrics instance registered against reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction never collides.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "splitbasket_store_operations_total",
			Help: "Total repository operations by store, operation, and outcome",
		}, []string{"store", "op", "status"}),
		Durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "splitbasket_store_operation_duration_seconds",
			Help:    "Duration of repository operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"store", "op"}),
	}
}

// Observe records one completed operation. Call with time.Now() captured at
// the start of the operation.
func (m *Metrics) Observe(store, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Operations.WithLabelValues(store, op, status).Inc()
	m.Durations.WithLabelValues(store, op).Observe(time.Since(start).Seconds())
}
