package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/sortviz/internal/run"
)

const namespace = "sortviz"

// Collector exports run summaries as Prometheus metrics. It owns its registry
// so several collectors can live in one process (tests, benchmarks).
type Collector struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	comparisons *prometheus.CounterVec
	swaps       *prometheus.CounterVec
	steps       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	size        prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		registry: reg,
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished sort runs by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		comparisons: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Comparisons reported at the end of each run.",
		}, []string{"algorithm"}),
		swaps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps_total",
			Help:      "Swaps reported at the end of each run.",
		}, []string{"algorithm"}),
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered by each run.",
		}, []string{"algorithm"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of sort runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
		size: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sequence_size",
			Help:      "Size of the most recently sorted sequence.",
		}),
	}
}

// Record implements run.Recorder.
func (c *Collector) Record(s run.Summary) {
	alg := s.Algorithm.Key()
	c.runs.WithLabelValues(alg, string(s.Outcome)).Inc()
	c.comparisons.WithLabelValues(alg).Add(float64(s.Stats.Comparisons))
	c.swaps.WithLabelValues(alg).Add(float64(s.Stats.Swaps))
	c.steps.WithLabelValues(alg).Add(float64(s.Steps))
	c.duration.WithLabelValues(alg).Observe(s.Duration.Seconds())
	c.size.Set(float64(s.Size))
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
