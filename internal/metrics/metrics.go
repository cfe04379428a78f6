package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wastex_http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wastex_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	SyncSweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wastex_sync_sweeps_total",
		Help: "Total sync sweeps run",
	})

	SyncEntriesUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wastex_sync_entries_uploaded_total",
		Help: "Production entries promoted from pending to confirmed",
	})

	SyncEntriesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wastex_sync_entries_failed_total",
		Help: "Production entry uploads that failed and stayed queued",
	})

	PendingQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wastex_pending_queue_depth",
		Help: "Entries currently waiting in the local queue",
	})
)
