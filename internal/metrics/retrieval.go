package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and geocoding Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georag",
			Name:      "retrieval_requests_total",
			Help:      "Total number of retrieval requests",
		},
		[]string{"mode", "status"}, // mode: "hybrid" / "semantic"
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "georag",
			Name:      "retrieval_duration_seconds",
			Help:      "End-to-end retrieval duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	RetrievalDocuments = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "georag",
			Name:      "retrieval_documents",
			Help:      "Documents returned per retrieval",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"mode"},
	)

	GeocodeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georag",
			Name:      "geocode_requests_total",
			Help:      "Total number of geocoding lookups",
		},
		[]string{"status"}, // "success" / "not_found" / "timeout" / "error"
	)

	AnswerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "georag",
			Name:      "answer_requests_total",
			Help:      "Total number of answer generations",
		},
		[]string{"provider", "status"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalDocuments)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(AnswerRequestsTotal)
	retrievalMetricsRegistered = true
}
