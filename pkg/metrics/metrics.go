package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	// Domain event metrics
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec

	// Catalog cache metrics
	CacheLookups *prometheus.CounterVec
}

// NewMetrics creates all application metrics and registers them with reg.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_published_total",
			Help:      "Total number of domain events published to the broker",
		}, []string{"event_type"}),
		EventsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_failed_total",
			Help:      "Total number of domain events that could not be published",
		}, []string{"event_type"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_lookups_total",
			Help:      "Catalog cache lookups by result",
		}, []string{"cache", "result"}),
	}
}
