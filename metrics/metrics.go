package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tracker_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_store_operations_total",
		Help: "Table reads and full-table writes by result",
	}, []string{"table", "op", "result"})

	storeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tracker_store_operation_duration_seconds",
		Help:    "Latency of table reads and writes",
		Buckets: prometheus.DefBuckets,
	}, []string{"table", "op"})

	lockTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_week_lock_transitions_total",
		Help: "Submission lock transitions by result",
	}, []string{"transition", "result"})

	entriesSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_entries_saved_total",
		Help: "Entries written by replace-on-save, by kind",
	}, []string{"kind"})
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveStoreOp records one backend read or write.
func ObserveStoreOp(table, op string, err error, duration time.Duration) {
	storeOperations.WithLabelValues(table, op, result(err)).Inc()
	storeDuration.WithLabelValues(table, op).Observe(duration.Seconds())
}

// ObserveLockTransition records submit / unlock_request / unlock_approve attempts.
func ObserveLockTransition(transition string, err error) {
	lockTransitions.WithLabelValues(transition, result(err)).Inc()
}

func ObserveEntriesSaved(kind string, n int) {
	entriesSaved.WithLabelValues(kind).Add(float64(n))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
