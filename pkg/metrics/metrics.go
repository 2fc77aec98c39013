package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Report metrics
	ReportBuilds   *prometheus.CounterVec
	ReportDuration *prometheus.HistogramVec

	// Pharmacy metrics
	SalesCreated      prometheus.Counter
	SalesRejected     *prometheus.CounterVec
	MedicineUnitsSold prometheus.Counter

	// Messaging metrics
	EventsPublished *prometheus.CounterVec

	// Database metrics
	DatabaseConnections prometheus.Gauge
}

// NewMetrics creates and registers all application metrics on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ReportBuilds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "builds_total",
			Help:      "Total number of report builds",
		}, []string{"kind", "status"}),
		ReportDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "build_duration_seconds",
			Help:      "Time spent building reports",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"kind"}),

		SalesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pharmacy",
			Name:      "sales_created_total",
			Help:      "Total number of pharmacy sales recorded",
		}),
		SalesRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pharmacy",
			Name:      "sales_rejected_total",
			Help:      "Total number of pharmacy sales rejected",
		}, []string{"reason"}),
		MedicineUnitsSold: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pharmacy",
			Name:      "units_sold_total",
			Help:      "Total medicine units sold",
		}),

		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of domain events published",
		}, []string{"event_type", "status"}),

		DatabaseConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "database_open_connections",
			Help:      "Current number of open database connections",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveReport records one report build.
func (m *Metrics) ObserveReport(kind string, elapsed time.Duration, err error) {
	m.ReportBuilds.WithLabelValues(kind, status(err)).Inc()
	m.ReportDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObservePublish records one event publish attempt.
func (m *Metrics) ObservePublish(eventType string, err error) {
	m.EventsPublished.WithLabelValues(eventType, status(err)).Inc()
}

// ObserveSale records a persisted pharmacy sale.
func (m *Metrics) ObserveSale(units int) {
	m.SalesCreated.Inc()
	m.MedicineUnitsSold.Add(float64(units))
}

func (m *Metrics) ObserveSaleRejected(reason string) {
	m.SalesRejected.WithLabelValues(reason).Inc()
}
