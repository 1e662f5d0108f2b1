package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "portal"
)

var (
	PipelineComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "pipeline", "compute_duration_seconds"),
		Help:    "Duration of a full reconstruct, detect and reconcile pass in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	PipelineCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "pipeline", "cache_lookups_total"),
		Help: "Snapshot cache lookups by outcome",
	}, []string{"outcome"})
	DetectedDrains = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "pipeline", "detected_drains"),
		Help: "Number of drains detected in the latest snapshot",
	})
	SuspiciousTickets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "pipeline", "suspicious_tickets"),
		Help: "Number of tickets flagged suspicious in the latest snapshot",
	})
	DatasetRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "dataset", "refreshes_total"),
		Help: "Upstream dataset refreshes by result",
	}, []string{"result"})
	AlertsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "alert", "published_total"),
		Help: "Alerts emitted by sink",
	}, []string{"sink"})
	WorkerRefreshDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "worker", "refresh_duration_seconds"),
		Help: "Duration of the latest scheduled refresh in seconds",
	})
	PlaybackMinute = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "playback", "minute"),
		Help: "Current minute of the playback cursor",
	})
)
