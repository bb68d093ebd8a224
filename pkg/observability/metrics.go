// Package observability exposes the framework's activity as Prometheus
// collectors. Components publish through their hook structs; this
// package supplies hook implementations that feed the collectors, so the
// core packages never import the metrics client.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/latticekit/lattice/pkg/dispatch"
	"github.com/latticekit/lattice/pkg/plugin"
	"github.com/latticekit/lattice/pkg/repository"
)

// Metrics bundles the framework collectors.
type Metrics struct {
	RepositoryOps *prometheus.CounterVec
	HandlerRuns   *prometheus.CounterVec
	InvokeSeconds *prometheus.HistogramVec
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		RepositoryOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_repository_operations_total",
				Help: "Repository operations by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		HandlerRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_handler_runs_total",
				Help: "Handler invocations by handler and outcome.",
			},
			[]string{"handler", "outcome"},
		),
		InvokeSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_service_invoke_seconds",
				Help:    "Service invocation latency by service.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
}

// Register registers every collector with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.RepositoryOps, m.HandlerRuns, m.InvokeSeconds} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RepositoryHooks feeds repository operation counts into the collectors.
func (m *Metrics) RepositoryHooks() repository.Hooks {
	return repository.Hooks{
		OnOperation: func(op, outcome string) {
			m.RepositoryOps.WithLabelValues(op, outcome).Inc()
		},
	}
}

// DispatchHooks feeds handler invocation counts into the collectors.
func (m *Metrics) DispatchHooks() dispatch.Hooks {
	return dispatch.Hooks{
		OnHandler: func(handler string, failed bool) {
			outcome := "ok"
			if failed {
				outcome = "error"
			}
			m.HandlerRuns.WithLabelValues(handler, outcome).Inc()
		},
	}
}

// PluginHooks feeds invocation latency into the collectors.
func (m *Metrics) PluginHooks() plugin.Hooks {
	return plugin.Hooks{
		OnInvoke: func(service string, elapsed time.Duration, failed bool) {
			m.InvokeSeconds.WithLabelValues(service).Observe(elapsed.Seconds())
		},
	}
}
