package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ConsentsRecorded prometheus.Counter
	ConsentsUpdated  prometheus.Counter
	ConsentsExpired  prometheus.Counter
	SyncRounds       *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics. Call once per process;
// promauto registers against the default registry.
func New() *Metrics {
	return &Metrics{
		ConsentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_consents_recorded_total",
			Help: "Total number of consent records declared",
		}),
		ConsentsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_consents_updated_total",
			Help: "Total number of consent records updated after declaration",
		}),
		ConsentsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_consents_expired_total",
			Help: "Total number of consent records flipped to expired by reconciliation",
		}),
		SyncRounds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentd_sync_rounds_total",
			Help: "Total number of sync rounds by outcome",
		}, []string{"outcome"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consentd_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "path"}),
	}
}

// ObserveSyncRound records the aggregate outcome of one sync round.
func (m *Metrics) ObserveSyncRound(outcome string) {
	m.SyncRounds.WithLabelValues(outcome).Inc()
}
