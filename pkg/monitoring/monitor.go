package monitoring

import (
	"strconv"
	"time"

	"kidlearn_backend/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ValidationResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_results_total",
			Help: "Progress validation outcomes",
		},
		[]string{"outcome"},
	)

	ValidationCheckFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_checks_failed_total",
			Help: "Failed consistency checks by check name",
		},
		[]string{"check"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ValidationResults)
	prometheus.MustRegister(ValidationCheckFailures)
}

// ObserveValidation records the outcome of one validation call and every
// individual check that failed, heuristics included.
func ObserveValidation(result *validation.ValidationResult) {
	if result == nil {
		return
	}
	outcome := "valid"
	switch {
	case result.HasSystemError():
		outcome = "system_error"
	case !result.IsValid:
		outcome = "invalid"
	case len(result.Warnings) > 0:
		outcome = "flagged"
	}
	ValidationResults.WithLabelValues(outcome).Inc()

	for _, check := range result.ConsistencyChecks {
		if !check.Passed {
			ValidationCheckFailures.WithLabelValues(check.Check).Inc()
		}
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
