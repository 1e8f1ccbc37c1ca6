// Package metrics exposes the service's prometheus instrumentation.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banco_transfers_total",
		Help: "Transfer executions by result.",
	}, []string{"result"})

	TransferredUnits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "banco_transferred_units_total",
		Help: "Sum of committed transfer amounts in minor units.",
	})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "banco_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Transfer result label values.
const (
	ResultCommitted         = "committed"
	ResultValidationError   = "validation_error"
	ResultSameAccount       = "same_account"
	ResultInsufficientFunds = "insufficient_funds"
	ResultNotFound          = "not_found"
	ResultStorageError      = "storage_error"
)

// Middleware records request latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
