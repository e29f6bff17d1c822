// Package metrics exposes Prometheus instrumentation for the extraction
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	CacheLookupsTotal  *prometheus.CounterVec
}

// New registers the service metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ExtractionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "jdextract_extractions_total",
			Help: "Extraction runs by terminal status and extraction method.",
		}, []string{"status", "method"}),
		ExtractionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "jdextract_extraction_duration_seconds",
			Help:    "End-to-end extraction duration.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 15, 30, 60},
		}),
		CacheLookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "jdextract_cache_lookups_total",
			Help: "Result cache lookups by outcome (hit, miss).",
		}, []string{"outcome"}),
	}
}

// ObserveExtraction records one finished run. method may be empty for runs
// that never produced content.
func (m *Metrics) ObserveExtraction(status, method string, d time.Duration) {
	if method == "" {
		method = "none"
	}
	m.ExtractionsTotal.WithLabelValues(status, method).Inc()
	m.ExtractionDuration.Observe(d.Seconds())
}

// ObserveCacheLookup records a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(outcome).Inc()
}
