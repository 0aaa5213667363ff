package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emotion_analyses_total",
			Help: "Total number of emotion history analyses",
		},
		[]string{"source", "outcome"}, // source: "api", "message"; outcome: "ok", "invalid", "error"
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emotion_analysis_duration_seconds",
			Help:    "Duration of emotion history analyses in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"source"},
	)

	AnalysisSamples = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "emotion_analysis_samples",
			Help:    "Number of samples per analyzed emotion history",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	MessagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emotion_messages_stored_total",
			Help: "Total number of chat messages persisted",
		},
	)

	ArchiveUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_archive_uploads_total",
			Help: "Total number of analysis report archive uploads",
		},
		[]string{"outcome"}, // "ok", "error", "rejected", "dropped"
	)

	ArchiveBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "report_archive_circuit_breaker_state",
			Help: "Archive circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

func RecordAnalysis(source, outcome string, samples int, duration time.Duration) {
	AnalysesTotal.WithLabelValues(source, outcome).Inc()
	AnalysisDuration.WithLabelValues(source).Observe(duration.Seconds())
	if outcome == "ok" {
		AnalysisSamples.Observe(float64(samples))
	}
}

func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordArchiveUpload(outcome string) {
	ArchiveUploads.WithLabelValues(outcome).Inc()
}
