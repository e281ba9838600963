package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion and export metrics.
var (
	IngestedDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "ingested_documents_total",
			Help:      "Uploaded documents by detected format and outcome",
		},
		[]string{"format", "status"}, // format "unknown" when detection fails
	)

	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "exports_total",
			Help:      "Exports by sink and outcome",
		},
		[]string{"sink", "status"}, // sink "xlsx" / "sheets" / "pdf"
	)
)

// Status returns the status label for err.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
