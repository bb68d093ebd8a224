// Package ports declares the driven-side interfaces of the framework.
// Adapters (memory, redis) implement them; the generic components depend
// only on the interfaces, keeping the core free of backend choices.
package ports

import (
	"context"

	"github.com/latticekit/lattice/pkg/capability"
	"github.com/latticekit/lattice/pkg/entity"
)

// EntityStore is the raw keyed storage beneath the generic repository.
// The repository layers validation and identity-uniqueness on top; the
// store only moves entities in and out.
type EntityStore[ID capability.Identifier, E entity.Entity[ID]] interface {
	// Get retrieves the entity for id. The boolean reports presence;
	// the error reports backend failure only.
	Get(ctx context.Context, id ID) (E, bool, error)

	// Put stores the entity under id, overwriting any previous value.
	Put(ctx context.Context, id ID, e E) error

	// Delete removes the entity for id. Deleting an absent id is not an
	// error.
	Delete(ctx context.Context, id ID) error

	// List returns a snapshot of every stored entity, ordered by the
	// string rendering of their identities.
	List(ctx context.Context) ([]E, error)
}
