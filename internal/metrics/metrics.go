// Package metrics exposes the engine's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the engine's metric families. A Collector is always
// usable; Nop returns one registered on a throwaway registry.
type Collector struct {
	StepsTotal       *prometheus.CounterVec
	RetriesTotal     prometheus.Counter
	ModelRunsTotal   *prometheus.CounterVec
	ScenarioDuration prometheus.Histogram
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		StepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "steps_total",
			Help:      "Steps executed, by result.",
		}, []string{"result"}),
		RetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "retries_total",
			Help:      "Retry attempts performed by eventually blocks.",
		}),
		ModelRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "model_runs_total",
			Help:      "Model-exploration runs, by end reason.",
		}, []string{"reason"}),
		ScenarioDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "espalier",
			Name:      "scenario_duration_seconds",
			Help:      "Wall-clock duration of complete scenarios.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.StepsTotal, c.RetriesTotal, c.ModelRunsTotal, c.ScenarioDuration)
	return c
}

// Nop returns a Collector whose metrics are never scraped.
func Nop() *Collector {
	return New(prometheus.NewRegistry())
}
