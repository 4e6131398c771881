// Package monitoring exposes Prometheus metrics for the seating engine.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/huyng1801/restobot/internal/models"
)

// MetricsCollector handles metrics collection and reporting
type MetricsCollector struct {
	registry *prometheus.Registry

	tableStatus       *prometheus.GaugeVec
	statusTransitions *prometheus.CounterVec
	arrivals          *prometheus.CounterVec
	noShows           prometheus.Counter
	resyncCorrections prometheus.Counter
}

// NewMetricsCollector creates a metrics collector with its own registry
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	tableStatus := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "restobot_tables_by_status",
			Help: "Number of active tables per status",
		},
		[]string{"status"},
	)

	statusTransitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restobot_table_status_transitions_total",
			Help: "Table status transitions applied by the reconciler",
		},
		[]string{"from", "to"},
	)

	arrivals := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restobot_arrivals_total",
			Help: "Recorded customer arrivals per classification",
		},
		[]string{"classification"},
	)

	noShows := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "restobot_no_shows_total",
			Help: "Reservations marked as no-show by the sweep",
		},
	)

	resyncCorrections := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "restobot_resync_corrections_total",
			Help: "Tables whose status the resync sweep corrected",
		},
	)

	registry.MustRegister(tableStatus, statusTransitions, arrivals, noShows, resyncCorrections)

	return &MetricsCollector{
		registry:          registry,
		tableStatus:       tableStatus,
		statusTransitions: statusTransitions,
		arrivals:          arrivals,
		noShows:           noShows,
		resyncCorrections: resyncCorrections,
	}
}

// Registry returns the collector's registry for the metrics HTTP handler
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTransition records a table status transition. Matches the
// reconciler's observer signature so it can be subscribed directly.
func (m *MetricsCollector) ObserveTransition(table models.Table, from, to models.TableStatus) {
	m.statusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// ObserveArrival records an arrival classification
func (m *MetricsCollector) ObserveArrival(classification models.ArrivalClassification) {
	m.arrivals.WithLabelValues(string(classification)).Inc()
}

// ObserveNoShows records reservations marked by a no-show sweep
func (m *MetricsCollector) ObserveNoShows(count int) {
	m.noShows.Add(float64(count))
}

// ObserveResync records how many tables a resync sweep corrected
func (m *MetricsCollector) ObserveResync(corrected int) {
	m.resyncCorrections.Add(float64(corrected))
}

// SetStatusSummary publishes the per-status table counts
func (m *MetricsCollector) SetStatusSummary(summary map[models.TableStatus]int) {
	for status, count := range summary {
		m.tableStatus.WithLabelValues(string(status)).Set(float64(count))
	}
}
