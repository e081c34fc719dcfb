// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Review metrics
	ReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codecritic_reviews_total",
			Help: "Total number of completed reviews",
		},
		[]string{"language"},
	)

	ReviewScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codecritic_review_score",
			Help:    "Distribution of heuristic quality scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codecritic_persist_failures_total",
			Help: "Total number of reviews that could not be stored",
		},
	)

	// Model metrics
	AIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codecritic_ai_requests_total",
			Help: "Total number of model calls by outcome",
		},
		[]string{"provider", "status"},
	)

	AIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codecritic_ai_request_duration_seconds",
			Help:    "Duration of model calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"provider"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codecritic_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codecritic_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordReview counts a completed review and observes its score.
func RecordReview(language string, score int) {
	ReviewsTotal.WithLabelValues(language).Inc()
	ReviewScore.Observe(float64(score))
}

// RecordPersistFailure counts a review that was returned but not stored.
func RecordPersistFailure() {
	PersistFailures.Inc()
}

// RecordAICall counts a model call and observes its duration.
func RecordAICall(provider, status string, duration time.Duration) {
	AIRequests.WithLabelValues(provider, status).Inc()
	AIDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordHTTPRequest counts an HTTP request and observes its duration.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
