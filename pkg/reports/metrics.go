package reports

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryDurationSeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "shoplens_report_query_duration_seconds",
		Help:    "Wall time of uncached report queries.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	},
	[]string{"report"},
)

func observeQueryDuration(report string, d time.Duration) {
	queryDurationSeconds.WithLabelValues(report).Observe(d.Seconds())
}
