// Package metrics exposes the Prometheus collectors for quill-api and small
// helpers to record into them. Collectors register on the default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quill"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Buckets cover fast API responses up to slow store calls.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being served",
		},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Register and login attempts by outcome",
		},
		[]string{"operation", "result"},
	)

	articleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_operations_total",
			Help:      "Article operations by outcome",
		},
		[]string{"operation", "result"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RequestStarted increments the in-flight gauge and returns the matching decrement.
func RequestStarted() func() {
	httpRequestsInFlight.Inc()
	return httpRequestsInFlight.Dec
}

// RecordHTTPRequest records one completed request. route should be the
// router pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordAuthAttempt records the outcome of a register or login call.
func RecordAuthAttempt(operation string, err error) {
	authAttemptsTotal.WithLabelValues(operation, result(err)).Inc()
}

// RecordArticleOperation records the outcome of an article service call.
func RecordArticleOperation(operation string, err error) {
	articleOperationsTotal.WithLabelValues(operation, result(err)).Inc()
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
