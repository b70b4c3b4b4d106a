package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	registry      *prom.Registry
	runDuration   prom.Histogram
	runOutcomes   *prom.CounterVec
	configReloads *prom.CounterVec
	watchedPaths  prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "siteconf",
			Name:      "run_duration_seconds",
			Help:      "Duration of engine runs",
			Buckets:   prom.DefBuckets,
		})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteconf",
			Name:      "run_outcomes_total",
			Help:      "Engine run outcomes by final status",
		}, []string{"outcome"})
		pr.configReloads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteconf",
			Name:      "config_reloads_total",
			Help:      "Configuration reloads by result",
		}, []string{"result"})
		pr.watchedPaths = prom.NewGauge(prom.GaugeOpts{
			Namespace: "siteconf",
			Name:      "watched_paths",
			Help:      "Number of filesystem paths currently watched",
		})

		reg.MustRegister(pr.runDuration, pr.runOutcomes, pr.configReloads, pr.watchedPaths)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	pr.runDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncRunOutcome(outcome Outcome) {
	pr.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (pr *PrometheusRecorder) IncConfigReload(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	pr.configReloads.WithLabelValues(result).Inc()
}

func (pr *PrometheusRecorder) SetWatchedPaths(n int) {
	pr.watchedPaths.Set(float64(n))
}

// Handler returns the HTTP handler exposing the registry.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}
