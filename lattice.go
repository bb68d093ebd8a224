package lattice

import (
	"context"
	"log/slog"

	"github.com/latticekit/lattice/internal/logging"
	"github.com/latticekit/lattice/pkg/dispatch"
	"github.com/latticekit/lattice/pkg/observability"
	"github.com/latticekit/lattice/pkg/plugin"
	"github.com/latticekit/lattice/pkg/repository"
)

// Runtime is the composition root for the dynamically-dispatched
// components: one plugin registry and one event dispatcher sharing a
// logger and, optionally, metrics hooks.
type Runtime struct {
	log        *slog.Logger
	metrics    *observability.Metrics
	registry   *plugin.Registry
	dispatcher *dispatch.Dispatcher
}

// Option defines a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithLogger sets the shared logger for all wired components.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.log = l
	}
}

// WithMetrics wires Prometheus hooks into all components.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// New builds a Runtime. Without options it logs nowhere and records no
// metrics.
func New(opts ...Option) *Runtime {
	r := &Runtime{log: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}

	regOpts := []plugin.Option{plugin.WithLogger(r.log)}
	dispOpts := []dispatch.Option{dispatch.WithLogger(r.log)}
	if r.metrics != nil {
		regOpts = append(regOpts, plugin.WithHooks(r.metrics.PluginHooks()))
		dispOpts = append(dispOpts, dispatch.WithHooks(r.metrics.DispatchHooks()))
	}
	r.registry = plugin.NewRegistry(regOpts...)
	r.dispatcher = dispatch.NewDispatcher(dispOpts...)
	return r
}

// Registry returns the runtime's plugin registry.
func (r *Runtime) Registry() *plugin.Registry { return r.registry }

// Dispatcher returns the runtime's event dispatcher.
func (r *Runtime) Dispatcher() *dispatch.Dispatcher { return r.dispatcher }

// RepositoryOptions returns the options that wire a caller-built
// repository into the runtime's logger and metrics.
func (r *Runtime) RepositoryOptions() []repository.Option {
	opts := []repository.Option{repository.WithLogger(r.log)}
	if r.metrics != nil {
		opts = append(opts, repository.WithHooks(r.metrics.RepositoryHooks()))
	}
	return opts
}

// Shutdown shuts down every registered service.
func (r *Runtime) Shutdown(ctx context.Context) error {
	return r.registry.Shutdown(ctx)
}
