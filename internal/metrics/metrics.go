package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the fetch-and-parse pipeline.
type Metrics struct {
	PayloadFetches  prometheus.Counter
	PipelineErrors  *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
	ExtractDuration prometheus.Histogram
}

// New registers all pipeline metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		PayloadFetches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sanctions_payload_fetches_total",
			Help: "Number of upstream XML downloads performed",
		}),
		PipelineErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctions_pipeline_errors_total",
			Help: "Pipeline failures by stage (resolve, fetch, extract)",
		}, []string{"stage"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctions_cache_hits_total",
			Help: "TTL cache hits by stage (payload, records)",
		}, []string{"stage"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sanctions_cache_misses_total",
			Help: "TTL cache misses by stage (payload, records)",
		}, []string{"stage"}),
		ExtractDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sanctions_extract_duration_seconds",
			Help:    "Duration of XML record extraction",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveExtract records the duration of one extraction pass.
// Call with time.Now() taken at the start of the operation.
func (m *Metrics) ObserveExtract(start time.Time) {
	m.ExtractDuration.Observe(time.Since(start).Seconds())
}
