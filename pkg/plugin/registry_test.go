package plugin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticekit/lattice/pkg/plugin"
)

// fakeService counts calls and fails on demand.
type fakeService struct {
	name      string
	fee       float64
	initErr   error
	valErr    error
	execErr   error
	execCount int
	shutdowns int
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Init(ctx context.Context) error { return s.initErr }

func (s *fakeService) Validate(req plugin.Request) error { return s.valErr }

func (s *fakeService) Execute(ctx context.Context, req plugin.Request) (plugin.Response, error) {
	if s.execErr != nil {
		return plugin.Response{}, s.execErr
	}
	s.execCount++
	return plugin.Response{Reference: "ref-" + s.name, Fee: s.fee}, nil
}

func (s *fakeService) Fee(req plugin.Request) float64 { return s.fee }

func (s *fakeService) Shutdown(ctx context.Context) error {
	s.shutdowns++
	return nil
}

func TestRegistry_InvokeUnknownName(t *testing.T) {
	r := plugin.NewRegistry()

	_, err := r.Invoke(context.Background(), "nope", plugin.Request{Amount: 1})
	assert.ErrorIs(t, err, plugin.ErrServiceUnavailable)
}

func TestRegistry_AddRejectsDuplicateName(t *testing.T) {
	r := plugin.NewRegistry()
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, "svc", &fakeService{name: "svc"}))
	err := r.Add(ctx, "svc", &fakeService{name: "svc"})
	assert.ErrorIs(t, err, plugin.ErrAlreadyRegistered)
}

func TestRegistry_FailedInitIsNotRegistered(t *testing.T) {
	r := plugin.NewRegistry()
	ctx := context.Background()

	err := r.Add(ctx, "svc", &fakeService{name: "svc", initErr: errors.New("no creds")})
	require.Error(t, err)

	_, ok := r.StateOf("svc")
	assert.False(t, ok)

	_, err = r.Invoke(ctx, "svc", plugin.Request{Amount: 1})
	assert.ErrorIs(t, err, plugin.ErrServiceUnavailable)
}

func TestRegistry_SuccessfulInvokeRecordsTransaction(t *testing.T) {
	r := plugin.NewRegistry()
	ctx := context.Background()

	svc := &fakeService{name: "svc", fee: 0.30}
	require.NoError(t, r.Add(ctx, "svc", svc))

	resp, err := r.Invoke(ctx, "svc", plugin.Request{Amount: 42, Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, "ref-svc", resp.Reference)
	assert.Equal(t, 1, svc.execCount)

	txns := r.Transactions()
	require.Len(t, txns, 1)
	assert.NotEmpty(t, txns[0].ID)
	assert.Equal(t, "svc", txns[0].Service)
	assert.Equal(t, "ref-svc", txns[0].Reference)
	assert.Equal(t, 42.0, txns[0].Amount)
	assert.Equal(t, 0.30, txns[0].Fee)
	assert.False(t, txns[0].At.IsZero())
}

func TestRegistry_FailedInvokeRecordsNoTransaction(t *testing.T) {
	r := plugin.NewRegistry()
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, "invalid", &fakeService{name: "invalid", valErr: errors.New("bad request")}))
	require.NoError(t, r.Add(ctx, "broken", &fakeService{name: "broken", execErr: errors.New("downstream")}))

	_, err := r.Invoke(ctx, "invalid", plugin.Request{Amount: 1})
	require.Error(t, err)
	_, err = r.Invoke(ctx, "broken", plugin.Request{Amount: 1})
	require.Error(t, err)

	assert.Empty(t, r.Transactions())
}

func TestRegistry_ShutdownIsIrreversible(t *testing.T) {
	r := plugin.NewRegistry()
	ctx := context.Background()

	svc := &fakeService{name: "svc"}
	require.NoError(t, r.Add(ctx, "svc", svc))

	state, ok := r.StateOf("svc")
	require.True(t, ok)
	assert.Equal(t, plugin.StateActive, state)

	require.NoError(t, r.Shutdown(ctx))
	assert.Equal(t, 1, svc.shutdowns)

	state, ok = r.StateOf("svc")
	require.True(t, ok)
	assert.Equal(t, plugin.StateShutDown, state)

	_, err := r.Invoke(ctx, "svc", plugin.Request{Amount: 1})
	assert.ErrorIs(t, err, plugin.ErrNotActive)

	// A second shutdown does not call the service again.
	require.NoError(t, r.Shutdown(ctx))
	assert.Equal(t, 1, svc.shutdowns)
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := plugin.NewRegistry()
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Add(ctx, name, &fakeService{name: name}))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestRegistry_HooksObserveInvocations(t *testing.T) {
	var calls []string
	r := plugin.NewRegistry(plugin.WithHooks(plugin.Hooks{
		OnInvoke: func(service string, elapsed time.Duration, failed bool) {
			outcome := "ok"
			if failed {
				outcome = "error"
			}
			calls = append(calls, service+":"+outcome)
		},
	}))
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, "good", &fakeService{name: "good"}))
	require.NoError(t, r.Add(ctx, "bad", &fakeService{name: "bad", execErr: errors.New("boom")}))

	_, _ = r.Invoke(ctx, "good", plugin.Request{Amount: 1})
	_, _ = r.Invoke(ctx, "bad", plugin.Request{Amount: 1})

	assert.Equal(t, []string{"good:ok", "bad:error"}, calls)
}
