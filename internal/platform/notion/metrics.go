package notion

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notionkit",
			Subsystem: "notion",
			Name:      "api_calls_total",
			Help:      "Total number of Notion API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notionkit",
			Subsystem: "notion",
			Name:      "api_latency_seconds",
			Help:      "Latency of Notion API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(apiCallsTotal, apiLatency)
}

// callResult classifies an API call outcome for the result label.
func callResult(err error) string {
	if err == nil {
		return "success"
	}
	var aErr *AuthError
	if errors.As(err, &aErr) {
		return "auth_error"
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		switch {
		case tErr.Status == 0:
			return "network_error"
		case tErr.Status == 429:
			return "rate_limited"
		case tErr.Status >= 500:
			return "server_error"
		default:
			return "client_error"
		}
	}
	return "error"
}

func (c *Client) recordAPICall(operation string, err error, latency time.Duration) {
	if !c.enableMetrics {
		return
	}
	apiCallsTotal.WithLabelValues(operation, callResult(err)).Inc()
	apiLatency.WithLabelValues(operation).Observe(latency.Seconds())
}
