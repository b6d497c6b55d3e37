package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/conecteai/sales_layer/internal/errors"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sales_layer",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sales_layer",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sales_layer",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	entityOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sales_layer",
			Name:      "entity_operations_total",
			Help:      "Total number of entity operations by outcome.",
		},
		[]string{"entity", "operation", "outcome"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sales_layer",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		},
	)
)

// Operation outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeNotFound   = "not_found"
	OutcomeConflict   = "conflict"
	OutcomeStoreError = "storage_error"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		entityOperations,
		rateLimited,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// TrackInFlight increments the in-flight gauge and returns the matching
// decrement.
func TrackInFlight() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordHTTPRequest records one served request. path should be a route
// template so label cardinality stays bounded.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOperation counts a service operation on an entity kind.
func RecordOperation(entity, operation, outcome string) {
	entityOperations.WithLabelValues(entity, operation, outcome).Inc()
}

// RecordRateLimited counts a throttled request.
func RecordRateLimited() {
	rateLimited.Inc()
}

// OutcomeFor classifies the error returned by a service operation.
func OutcomeFor(err error) string {
	if err == nil {
		return OutcomeOK
	}
	switch svcErr := errors.GetServiceError(err); {
	case svcErr == nil:
		return OutcomeStoreError
	case svcErr.Code == errors.CodeValidation:
		return OutcomeInvalid
	case svcErr.Code == errors.CodeNotFound:
		return OutcomeNotFound
	case svcErr.Code == errors.CodeConflict:
		return OutcomeConflict
	default:
		return OutcomeStoreError
	}
}
