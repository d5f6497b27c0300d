package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec

	DecisionTotal      *prometheus.CounterVec
	ScanTotal          *prometheus.CounterVec
	PenaltyLeviedTotal prometheus.Counter
	WarningIssuedTotal prometheus.Counter
	NotificationTotal  *prometheus.CounterVec
}

// NewMetrics registers all application metrics with the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWith registers against an explicit registerer so callers can
// use an isolated registry.
func NewMetricsWith(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		DecisionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Approval decisions recorded, by gate and outcome",
		}, []string{"gate", "decision"}),
		ScanTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_scans_total",
			Help:      "QR scans processed, by verdict flag",
		}, []string{"flag"}),
		PenaltyLeviedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "penalties_levied_total",
			Help:      "Penalty ledger entries created",
		}),
		WarningIssuedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_warnings_issued_total",
			Help:      "Health warning documents issued",
		}),
		NotificationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Email notifications attempted, by outcome",
		}, []string{"status"}),
	}
}
