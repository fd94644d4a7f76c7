package server

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// setupRequestsTotal counts setup requests by response status.
	setupRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notionkit_server_setup_requests_total",
			Help: "Total number of setup requests by HTTP status",
		},
		[]string{"status"},
	)

	// setupRequestDuration measures setup request latency.
	setupRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notionkit_server_setup_request_duration_seconds",
			Help:    "Duration of setup requests",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	// handleStoreErrorsTotal counts failed handle store operations.
	handleStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notionkit_server_handle_store_errors_total",
			Help: "Total number of failed handle store operations",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		setupRequestsTotal,
		setupRequestDuration,
		handleStoreErrorsTotal,
	)
}

func recordSetupRequest(status int, seconds float64) {
	setupRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	setupRequestDuration.Observe(seconds)
}

func recordStoreError(operation string) {
	handleStoreErrorsTotal.WithLabelValues(operation).Inc()
}
