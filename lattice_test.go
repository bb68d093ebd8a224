package lattice_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticekit/lattice"
	"github.com/latticekit/lattice/pkg/dispatch"
	"github.com/latticekit/lattice/pkg/observability"
	"github.com/latticekit/lattice/pkg/plugin"
	"github.com/latticekit/lattice/pkg/ports/storetest"
	"github.com/latticekit/lattice/pkg/repository"
)

type echoService struct{ name string }

func (s echoService) Name() string                      { return s.name }
func (s echoService) Init(ctx context.Context) error    { return nil }
func (s echoService) Validate(req plugin.Request) error { return nil }
func (s echoService) Fee(req plugin.Request) float64    { return 0.5 }
func (s echoService) Shutdown(ctx context.Context) error { return nil }

func (s echoService) Execute(ctx context.Context, req plugin.Request) (plugin.Response, error) {
	return plugin.Response{Reference: "echo"}, nil
}

func TestRuntime_WiresComponentsTogether(t *testing.T) {
	metrics := observability.NewMetrics()
	promReg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(promReg))

	rt := lattice.New(lattice.WithMetrics(metrics))
	ctx := context.Background()

	// Registry and dispatcher share the runtime's hooks.
	require.NoError(t, rt.Registry().Add(ctx, "echo", echoService{name: "echo"}))
	_, err := rt.Registry().Invoke(ctx, "echo", plugin.Request{Amount: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.InvokeSeconds))

	rt.Dispatcher().AddHandler(dispatch.HandlerFunc("audit", 1, nil,
		func(evt dispatch.Event) (dispatch.Result, error) {
			return dispatch.Result{Output: "seen"}, nil
		}))
	outcomes := rt.Dispatcher().Dispatch(dispatch.NewEvent("tick", dispatch.Result{Output: "p"}, nil))
	require.Len(t, outcomes, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HandlerRuns.WithLabelValues("audit", "ok")))

	// Caller-built repositories pick up the same wiring.
	repo := repository.New[storetest.ItemID, storetest.Item](rt.RepositoryOptions()...)
	require.NoError(t, repo.Create(ctx, storetest.Item{ID: "a", Name: "n", Price: 1}))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RepositoryOps.WithLabelValues("create", "ok")))

	// Shutdown tears the registry down irreversibly.
	require.NoError(t, rt.Shutdown(ctx))
	_, err = rt.Registry().Invoke(ctx, "echo", plugin.Request{Amount: 3})
	assert.ErrorIs(t, err, plugin.ErrNotActive)
}
