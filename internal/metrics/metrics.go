// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Render statuses.
const (
	StatusOK         = "ok"
	StatusDiagnostic = "diagnostic"
	StatusTooBig     = "too_big"
	StatusError      = "error"
	StatusTimeout    = "timeout"
)

var (
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markrender_renders_total",
			Help: "Total number of render requests",
		},
		[]string{"format", "status"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "markrender_render_duration_ms",
			Help:    "Render duration in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"format"},
	)

	PagesTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "markrender_pages_truncated_total",
			Help: "Pages compiled but left out of a response by the page or byte budget",
		},
	)

	BusyWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "markrender_busy_workers",
			Help: "Number of render workers currently running a render",
		},
	)
)

// ObserveRender records one finished render.
func ObserveRender(format, status string, elapsed time.Duration, morePages int) {
	RendersTotal.WithLabelValues(format, status).Inc()
	RenderDuration.WithLabelValues(format).Observe(float64(elapsed.Milliseconds()))
	if morePages > 0 {
		PagesTruncated.Add(float64(morePages))
	}
}
