package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// CartFetchTotal tracks cart loads by result (ok, failed)
	CartFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_fetch_total",
			Help: "Total number of cart fetches from the remote source",
		},
		[]string{"result"},
	)

	// CartFetchDuration tracks how long the remote source takes to answer
	CartFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storefront_cart_fetch_duration_seconds",
			Help:    "Remote cart fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CartMutationsTotal tracks cart mutations by kind and result
	CartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Total number of cart mutations",
		},
		[]string{"kind", "result"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	// ActiveSessions tracks cart sessions held in memory
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_sessions",
			Help: "Number of cart sessions held in memory",
		},
	)

	// SessionEvictionsTotal tracks dropped sessions by reason (idle, capacity)
	SessionEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_session_evictions_total",
			Help: "Total number of cart sessions dropped from memory",
		},
		[]string{"reason"},
	)

	// ContactSubmissionsTotal tracks contact form submissions by result
	ContactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_contact_submissions_total",
			Help: "Total number of contact form submissions",
		},
		[]string{"result"},
	)
)

// PrometheusMiddleware creates a Gin middleware for automatic metrics collection
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}
