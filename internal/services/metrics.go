package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"synapse/internal/knowledge"
	"synapse/internal/queue"
)

// Metrics holds all custom Prometheus metrics for the pipeline.
type Metrics struct {
	MessagesTotal  prometheus.Counter
	PathwayWins    *prometheus.CounterVec
	MessageLatency prometheus.Histogram
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics and registers gauges fed
// from the knowledge store and the learning queue.
func InitMetrics(store *knowledge.Store, learning *queue.LearningQueue) *Metrics {
	metrics := &Metrics{
		MessagesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "synapse_messages_total",
			Help: "Total number of messages processed by the pipeline",
		}),
		PathwayWins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "synapse_pathway_wins_total",
			Help: "Messages won per pathway after synthesis",
		}, []string{"pathway"}),
		MessageLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "synapse_message_duration_seconds",
			Help:    "End-to-end message processing latency in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "synapse_knowledge_entries",
			Help: "Current number of knowledge entries across all namespaces",
		},
		func() float64 { return float64(store.Count()) },
	))
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "synapse_learning_queue_depth",
			Help: "Current number of pending learning queue items",
		},
		func() float64 { return float64(learning.Len()) },
	))

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance.
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordMessage implements pipeline.Recorder.
func (m *Metrics) RecordMessage(pathway string, duration time.Duration) {
	m.MessagesTotal.Inc()
	m.PathwayWins.WithLabelValues(pathway).Inc()
	m.MessageLatency.Observe(duration.Seconds())
}
