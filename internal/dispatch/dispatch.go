// Package dispatch relays individual consent and context records to the
// remote collector. Each Dispatch call is an independent unit of work; the
// sync engine aggregates outcomes and only the all-succeeded/any-failed
// result matters to callers. Timeout policy belongs to the transport.
package dispatch

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatcher sends one record to the named collector table (or topic).
type Dispatcher interface {
	Dispatch(ctx context.Context, table string, record map[string]any) error
}

var dispatchDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "consentd_dispatch_duration_ms",
	Help:    "Latency of collector dispatches in milliseconds",
	Buckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
}, []string{"backend"})
