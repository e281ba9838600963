package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ranking run Prometheus metrics.
var (
	RankingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "ranking_runs_total",
			Help:      "Total number of ranking runs",
		},
		[]string{"status"}, // "ok" / "partial" / "error" / "canceled"
	)

	RankingRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumerank",
			Name:      "ranking_run_duration_seconds",
			Help:      "Ranking run duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	RankingDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "ranking_documents_total",
			Help:      "Ranked documents by outcome",
		},
		[]string{"outcome"}, // "ok" / "degraded"
	)
)
