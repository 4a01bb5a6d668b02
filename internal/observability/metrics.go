package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for one map run. The process is
// short-lived, so gauges describe the run and counters accumulate per run.
type Metrics struct {
	FetchDuration     prometheus.Histogram
	StationsReported  prometheus.Gauge
	StationsMissing   prometheus.Gauge
	LightningStations prometheus.Gauge

	TicksTotal    prometheus.Counter
	FrameDuration prometheus.Histogram
	RenderRunning prometheus.Gauge
}

// NewMetrics creates and registers all map metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchDuration,
		m.StationsReported,
		m.StationsMissing,
		m.LightningStations,
		m.TicksTotal,
		m.FrameDuration,
		m.RenderRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so parallel tests cannot
// collide on the default registry.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "metar_map",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the METAR feed fetch, retries included.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		StationsReported: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "metar_map",
			Name:      "stations_reported",
			Help:      "Configured stations with a report in the current fetch.",
		}),
		StationsMissing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "metar_map",
			Name:      "stations_missing",
			Help:      "Configured stations rendered as no-data placeholders.",
		}),
		LightningStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "metar_map",
			Name:      "lightning_stations",
			Help:      "Stations whose raw report matched the lightning heuristic.",
		}),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metar_map",
			Name:      "render_ticks_total",
			Help:      "Animation ticks rendered.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "metar_map",
			Name:      "frame_duration_seconds",
			Help:      "Time to compute and flush one frame, excluding the tick sleep.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		}),
		RenderRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "metar_map",
			Name:      "render_running",
			Help:      "1 while the render loop is active.",
		}),
	}
}
