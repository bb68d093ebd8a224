// Package repository provides a generic keyed store for any type
// satisfying the entity contract. It enforces self-validation and
// identity uniqueness on every mutation and delegates raw storage to a
// ports.EntityStore, so backends plug in beneath the same semantics.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/latticekit/lattice/internal/logging"
	"github.com/latticekit/lattice/pkg/adapters/memory"
	"github.com/latticekit/lattice/pkg/capability"
	"github.com/latticekit/lattice/pkg/entity"
	"github.com/latticekit/lattice/pkg/ports"
)

// Outcome labels reported through Hooks after each operation.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "validation_error"
	OutcomeDuplicate    = "duplicate_identity"
	OutcomeNotFound     = "not_found"
	OutcomeStorageError = "storage_error"
)

// Hooks receives a notification after every repository operation.
// Used for metrics aggregation; a nil callback is skipped.
type Hooks struct {
	OnOperation func(op, outcome string)
}

// Option configures a Repository.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
	hooks  Hooks
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithHooks registers operation hooks.
func WithHooks(h Hooks) Option {
	return func(s *settings) {
		s.hooks = h
	}
}

// Repository is a keyed store of entities with validation and
// identity-uniqueness enforcement. Mutations are transactional at
// single-entity granularity: a failed validation or identity check
// leaves the store exactly as it was.
type Repository[ID capability.Identifier, E entity.Storable[ID, E]] struct {
	mu    sync.Mutex
	store ports.EntityStore[ID, E]
	log   *slog.Logger
	hooks Hooks
}

// New creates a repository backed by the in-memory store.
func New[ID capability.Identifier, E entity.Storable[ID, E]](opts ...Option) *Repository[ID, E] {
	return NewWithStore[ID, E](memory.NewStore[ID, E](), opts...)
}

// NewWithStore creates a repository on top of an existing store.
func NewWithStore[ID capability.Identifier, E entity.Storable[ID, E]](store ports.EntityStore[ID, E], opts ...Option) *Repository[ID, E] {
	s := settings{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return &Repository[ID, E]{
		store: store,
		log:   s.logger,
		hooks: s.hooks,
	}
}

func (r *Repository[ID, E]) report(op, outcome string) {
	if r.hooks.OnOperation != nil {
		r.hooks.OnOperation(op, outcome)
	}
}

// Create validates the entity and inserts it. It fails with a
// *entity.Violations if validation fails and with ErrDuplicateIdentity if
// the identity is already present; the store is untouched in both cases.
func (r *Repository[ID, E]) Create(ctx context.Context, e E) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := e.Validate(); err != nil {
		r.report("create", OutcomeInvalid)
		r.log.Debug("create rejected", "id", e.EntityID().String(), "err", err)
		return err
	}

	id := e.EntityID()
	_, found, err := r.store.Get(ctx, id)
	if err != nil {
		r.report("create", OutcomeStorageError)
		return fmt.Errorf("create %s: %w", id, err)
	}
	if found {
		r.report("create", OutcomeDuplicate)
		return fmt.Errorf("create %s: %w", id, ErrDuplicateIdentity)
	}

	if err := r.store.Put(ctx, id, e); err != nil {
		r.report("create", OutcomeStorageError)
		return fmt.Errorf("create %s: %w", id, err)
	}
	r.report("create", OutcomeOK)
	r.log.Debug("entity created", "id", id.String())
	return nil
}

// Update validates the entity and overwrites the stored value for its
// identity. The identity must already exist.
func (r *Repository[ID, E]) Update(ctx context.Context, e E) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := e.Validate(); err != nil {
		r.report("update", OutcomeInvalid)
		r.log.Debug("update rejected", "id", e.EntityID().String(), "err", err)
		return err
	}

	id := e.EntityID()
	_, found, err := r.store.Get(ctx, id)
	if err != nil {
		r.report("update", OutcomeStorageError)
		return fmt.Errorf("update %s: %w", id, err)
	}
	if !found {
		r.report("update", OutcomeNotFound)
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	if err := r.store.Put(ctx, id, e); err != nil {
		r.report("update", OutcomeStorageError)
		return fmt.Errorf("update %s: %w", id, err)
	}
	r.report("update", OutcomeOK)
	r.log.Debug("entity updated", "id", id.String())
	return nil
}

// Delete removes the entity for id and returns it.
func (r *Repository[ID, E]) Delete(ctx context.Context, id ID) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero E
	e, found, err := r.store.Get(ctx, id)
	if err != nil {
		r.report("delete", OutcomeStorageError)
		return zero, fmt.Errorf("delete %s: %w", id, err)
	}
	if !found {
		r.report("delete", OutcomeNotFound)
		return zero, fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	if err := r.store.Delete(ctx, id); err != nil {
		r.report("delete", OutcomeStorageError)
		return zero, fmt.Errorf("delete %s: %w", id, err)
	}
	r.report("delete", OutcomeOK)
	r.log.Debug("entity deleted", "id", id.String())
	return e, nil
}

// FindByID retrieves the entity for id, or ErrNotFound.
func (r *Repository[ID, E]) FindByID(ctx context.Context, id ID) (E, error) {
	var zero E
	e, found, err := r.store.Get(ctx, id)
	if err != nil {
		r.report("find", OutcomeStorageError)
		return zero, fmt.Errorf("find %s: %w", id, err)
	}
	if !found {
		r.report("find", OutcomeNotFound)
		return zero, fmt.Errorf("find %s: %w", id, ErrNotFound)
	}
	r.report("find", OutcomeOK)
	return e, nil
}

// FindAll returns a snapshot of every stored entity, sorted by identity.
func (r *Repository[ID, E]) FindAll(ctx context.Context) ([]E, error) {
	all, err := r.store.List(ctx)
	if err != nil {
		r.report("find_all", OutcomeStorageError)
		return nil, fmt.Errorf("find all: %w", err)
	}
	r.report("find_all", OutcomeOK)
	return all, nil
}
