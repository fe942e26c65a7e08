package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	stylizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylizerd",
			Subsystem: "manager",
			Name:      "stylizations_total",
			Help:      "Total stylization calls by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	stylizationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stylizerd",
			Subsystem: "manager",
			Name:      "stylization_duration_seconds",
			Help:      "Duration of stylization calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model"},
	)
)

func init() {
	prometheus.MustRegister(stylizationsTotal, stylizationDuration)
}
