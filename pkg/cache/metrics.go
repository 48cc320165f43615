package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoplens_report_cache_results_total",
			Help: "Report cache lookup outcomes.",
		},
		[]string{"namespace", "result"},
	)
	cacheFlushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoplens_report_cache_flushes_total",
			Help: "Report cache namespace invalidations.",
		},
		[]string{"namespace"},
	)
)

func observeCacheResult(namespace, result string) {
	cacheResultsTotal.WithLabelValues(namespace, result).Inc()
}

func observeCacheFlush(namespace string) {
	cacheFlushesTotal.WithLabelValues(namespace).Inc()
}
