package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the residency module: computation
// counts and latencies for the query paths, cache effectiveness, and sweep
// outcomes by risk level.
type Metrics struct {
	StatusComputed   prometheus.Counter
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	VectorDuration   prometheus.Histogram
	ForecastDuration prometheus.Histogram
	SweepDuration    prometheus.Histogram
	SweepSubjects    prometheus.Gauge
	SweepByRisk      *prometheus.GaugeVec
}

// New creates a Metrics instance with all residency module metrics registered.
func New() *Metrics {
	return &Metrics{
		StatusComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "daywise_status_computed_total",
			Help: "Total number of point-in-time status computations",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "daywise_status_cache_hits_total",
			Help: "Status lookups served from the cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "daywise_status_cache_misses_total",
			Help: "Status lookups that required a fresh computation",
		}),
		VectorDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "daywise_vector_duration_seconds",
			Help:    "Duration of calendar vector computations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		ForecastDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "daywise_forecast_duration_seconds",
			Help:    "Duration of forecast and safe-entry computations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "daywise_sweep_duration_seconds",
			Help:    "Duration of full compliance sweeps",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}),
		SweepSubjects: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "daywise_sweep_subjects",
			Help: "Subjects evaluated by the most recent sweep",
		}),
		SweepByRisk: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "daywise_sweep_subjects_by_risk",
			Help: "Subjects per risk level in the most recent sweep",
		}, []string{"risk_level"}),
	}
}

// ObserveVector records the duration of a vector computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveVector(start time.Time) {
	m.VectorDuration.Observe(time.Since(start).Seconds())
}

// ObserveForecast records the duration of a forecast computation.
func (m *Metrics) ObserveForecast(start time.Time) {
	m.ForecastDuration.Observe(time.Since(start).Seconds())
}

// ObserveSweep records a completed sweep with its per-risk breakdown.
func (m *Metrics) ObserveSweep(start time.Time, subjects, green, amber, red int) {
	m.SweepDuration.Observe(time.Since(start).Seconds())
	m.SweepSubjects.Set(float64(subjects))
	m.SweepByRisk.WithLabelValues("green").Set(float64(green))
	m.SweepByRisk.WithLabelValues("amber").Set(float64(amber))
	m.SweepByRisk.WithLabelValues("red").Set(float64(red))
}
