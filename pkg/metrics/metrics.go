package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PagesIndexedTotal   *prometheus.CounterVec
	FetchFailuresTotal  *prometheus.CounterVec
	CrawlDuration       *prometheus.HistogramVec
	IndexingInProgress  prometheus.Gauge
	SearchDuration      prometheus.Histogram
	SearchResults       prometheus.Histogram

	initOnce sync.Once
)

// Init registers collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PagesIndexedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pages_indexed_total",
			Help: "Total number of pages persisted and indexed.",
		},
		[]string{"site"},
	)

	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_failures_total",
			Help: "Total number of page fetches that failed.",
		},
		[]string{"reason"}, // http_status, network, timeout, robots, unsupported_content
	)

	CrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawl_duration_seconds",
			Help:    "Duration of a full site crawl.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"site"},
	)

	IndexingInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexing_in_progress",
			Help: "1 while a full indexing session is running.",
		},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Duration of search queries.",
			Buckets: prometheus.DefBuckets,
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results",
			Help:    "Number of results returned per search.",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)
}
