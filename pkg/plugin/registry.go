package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/latticekit/lattice/internal/logging"
)

// Transaction records one successful invocation.
type Transaction struct {
	ID        string
	Service   string
	Reference string
	Amount    float64
	Fee       float64
	At        time.Time
}

// Hooks receives a notification after each invocation attempt.
type Hooks struct {
	OnInvoke func(service string, elapsed time.Duration, failed bool)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

// WithHooks registers invocation hooks.
func WithHooks(h Hooks) Option {
	return func(r *Registry) {
		r.hooks = h
	}
}

type entry struct {
	svc   Service
	state State
}

// Registry manages the available services and their lifecycle. It owns
// each registered instance from Add until Shutdown.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*entry
	txns     []Transaction
	log      *slog.Logger
	hooks    Hooks
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		services: make(map[string]*entry),
		log:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add initializes svc and registers it under name. The name must be
// unused; a failed Init leaves the registry unchanged.
func (r *Registry) Add(ctx context.Context, name string, svc Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	if err := svc.Init(ctx); err != nil {
		return fmt.Errorf("init %s: %w", name, err)
	}
	r.services[name] = &entry{svc: svc, state: StateActive}
	r.log.Debug("service registered", "name", name)
	return nil
}

// Invoke looks up a service by name, validates the request against it,
// and executes it. A successful execution appends a transaction log
// entry carrying the service's fee for the request.
func (r *Registry) Invoke(ctx context.Context, name string, req Request) (Response, error) {
	r.mu.RLock()
	e, ok := r.services[name]
	var state State
	if ok {
		state = e.state
	}
	r.mu.RUnlock()

	if !ok {
		return Response{}, fmt.Errorf("%w: %s", ErrServiceUnavailable, name)
	}
	if state != StateActive {
		return Response{}, fmt.Errorf("%w: %s is %s", ErrNotActive, name, state)
	}

	start := time.Now()
	resp, err := r.invoke(ctx, e.svc, req)
	if r.hooks.OnInvoke != nil {
		r.hooks.OnInvoke(name, time.Since(start), err != nil)
	}
	if err != nil {
		r.log.Warn("invocation failed", "service", name, "err", err)
		return Response{}, err
	}

	txn := Transaction{
		ID:        uuid.NewString(),
		Service:   name,
		Reference: resp.Reference,
		Amount:    req.Amount,
		Fee:       e.svc.Fee(req),
		At:        time.Now(),
	}
	r.mu.Lock()
	r.txns = append(r.txns, txn)
	r.mu.Unlock()

	r.log.Debug("invocation done", "service", name, "reference", resp.Reference, "fee", txn.Fee)
	return resp, nil
}

func (r *Registry) invoke(ctx context.Context, svc Service, req Request) (Response, error) {
	if err := svc.Validate(req); err != nil {
		return Response{}, fmt.Errorf("validate: %w", err)
	}
	resp, err := svc.Execute(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("execute: %w", err)
	}
	return resp, nil
}

// StateOf reports the lifecycle state of the named service.
func (r *Registry) StateOf(name string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.services[name]
	if !ok {
		return StateUninitialized, false
	}
	return e.state, true
}

// Names returns the registered service names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transactions returns a copy of the transaction log in append order.
func (r *Registry) Transactions() []Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Transaction, len(r.txns))
	copy(out, r.txns)
	return out
}

// Shutdown transitions every active service to ShutDown, irreversibly.
// All services are attempted; their errors are joined.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, e := range r.services {
		if e.state != StateActive {
			continue
		}
		if err := e.svc.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", name, err))
		}
		e.state = StateShutDown
	}
	return errors.Join(errs...)
}
