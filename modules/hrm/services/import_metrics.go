package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrm",
		Subsystem: "import",
		Name:      "batches_total",
		Help:      "Total number of bulk import batches broken down by source format and result.",
	}, []string{"format", "result"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrm",
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Total number of bulk import rows broken down by outcome.",
	}, []string{"outcome"})
)

func observeImportRows(created, updated, skipped, errored int) {
	importRows.WithLabelValues("created").Add(float64(created))
	importRows.WithLabelValues("updated").Add(float64(updated))
	importRows.WithLabelValues("skipped").Add(float64(skipped))
	importRows.WithLabelValues("errored").Add(float64(errored))
}
