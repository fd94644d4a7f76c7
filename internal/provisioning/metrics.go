package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	stageSucceeded = "success"
	stageFailed    = "error"
)

var (
	stageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notionkit",
			Subsystem: "provisioning",
			Name:      "stage_total",
			Help:      "Total number of provisioning stages by result",
		},
		[]string{"stage", "result"},
	)

	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "notionkit",
			Subsystem: "provisioning",
			Name:      "stage_duration_seconds",
			Help:      "Duration of provisioning stages in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"stage"},
	)

	itemFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notionkit",
			Subsystem: "provisioning",
			Name:      "item_failures_total",
			Help:      "Total number of non-fatal item failures by stage",
		},
		[]string{"stage"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notionkit",
			Subsystem: "provisioning",
			Name:      "runs_total",
			Help:      "Total number of provisioning runs by result",
		},
		[]string{"result"},
	)

	runsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "notionkit",
			Subsystem: "provisioning",
			Name:      "runs_in_progress",
			Help:      "Number of provisioning runs currently executing",
		},
	)
)

func init() {
	prometheus.MustRegister(
		stageTotal,
		stageDuration,
		itemFailuresTotal,
		runsTotal,
		runsInProgress,
	)
}

func recordStage(stage, result string, d time.Duration) {
	stageTotal.WithLabelValues(stage, result).Inc()
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func recordItemFailure(stage string) {
	itemFailuresTotal.WithLabelValues(stage).Inc()
}

func recordRun(result string) {
	runsTotal.WithLabelValues(result).Inc()
}
