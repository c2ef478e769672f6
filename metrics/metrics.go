// Package metrics holds the Prometheus collectors of the amortization service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/warp/amortization-engine/amortization"
)

const (
	metricPrefix = "amortize_"

	resultSuccess = "success"
	resultError   = "error"
)

// Metrics bundles the service collectors.
type Metrics struct {
	SchedulesTotal  *prometheus.CounterVec
	GenerateLatency prometheus.Histogram
	RowsTotal       prometheus.Counter
	CacheRequests   *prometheus.CounterVec
	ExportsTotal    *prometheus.CounterVec
}

// New constructs the collectors and registers them with reg. A nil reg
// leaves them unregistered, which tests use.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SchedulesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "schedules_generated_total",
				Help: "Total schedule generations by interest mode and result",
			},
			[]string{"mode", "result"},
		),
		GenerateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "schedule_generate_seconds",
			Help:    "Time to generate and drain a schedule in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		RowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "schedule_rows_total",
			Help: "Total schedule rows produced",
		}),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_requests_total",
				Help: "Preview cache lookups by result",
			},
			[]string{"result"},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Schedule exports by format",
			},
			[]string{"format"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.SchedulesTotal,
			m.GenerateLatency,
			m.RowsTotal,
			m.CacheRequests,
			m.ExportsTotal,
		)
	}
	return m
}

// ObserveGenerate records one generation attempt.
func (m *Metrics) ObserveGenerate(mode amortization.InterestMode, rows int, err error, started time.Time) {
	if m == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.SchedulesTotal.WithLabelValues(mode.String(), result).Inc()
	m.GenerateLatency.Observe(time.Since(started).Seconds())
	m.RowsTotal.Add(float64(rows))
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheRequests.WithLabelValues("hit").Inc()
		return
	}
	m.CacheRequests.WithLabelValues("miss").Inc()
}

// ObserveExport records one export.
func (m *Metrics) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.ExportsTotal.WithLabelValues(format).Inc()
}
