// Package memory implements ports.EntityStore in process memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/latticekit/lattice/pkg/capability"
	"github.com/latticekit/lattice/pkg/entity"
)

// Store keeps entities in a map keyed by identity.
// Safe for concurrent use.
type Store[ID capability.Identifier, E entity.Storable[ID, E]] struct {
	mu   sync.RWMutex
	data map[ID]E
}

// NewStore creates a new empty in-memory store.
func NewStore[ID capability.Identifier, E entity.Storable[ID, E]]() *Store[ID, E] {
	return &Store[ID, E]{
		data: make(map[ID]E),
	}
}

// Get retrieves a copy of the entity so the caller cannot mutate stored
// state through the returned value.
func (s *Store[ID, E]) Get(ctx context.Context, id ID) (E, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[id]
	if !ok {
		var zero E
		return zero, false, nil
	}
	return e.Clone(), true, nil
}

// Put stores a copy of the entity under id, overwriting any previous
// value.
func (s *Store[ID, E]) Put(ctx context.Context, id ID, e E) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = e.Clone()
	return nil
}

// Delete removes the entity for id.
func (s *Store[ID, E]) Delete(ctx context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns a snapshot of every stored entity, sorted by identity.
func (s *Store[ID, E]) List(ctx context.Context) ([]E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]E, 0, len(s.data))
	for _, e := range s.data {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EntityID().String() < out[j].EntityID().String()
	})
	return out, nil
}
