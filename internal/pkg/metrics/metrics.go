package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "attendance_dashboard"

var (
	// SourceLoads counts source loads by source name and outcome (success|error).
	SourceLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_loads_total",
		Help:      "Number of attendance source loads.",
	}, []string{"source", "outcome"})

	SourceLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_load_duration_seconds",
		Help:      "Duration of attendance source loads.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	LoadedRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "loaded_records",
		Help:      "Number of records in the cached dataset.",
	})

	// CacheLookups counts dataset lookups by result (hit|miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Number of dataset cache lookups.",
	}, []string{"result"})

	// CronRuns counts scheduled job runs by job name and outcome.
	CronRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cron_runs_total",
		Help:      "Number of scheduled job runs.",
	}, []string{"job", "outcome"})

	StreamSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_subscribers",
		Help:      "Number of connected event stream clients.",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
