package storetest

import (
	"context"
	"testing"

	"github.com/latticekit/lattice/pkg/capability"
	"github.com/latticekit/lattice/pkg/entity"
	"github.com/latticekit/lattice/pkg/ports"
)

// RunEntityStoreContract verifies an adapter against the semantics every
// ports.EntityStore implementation must share. seed must contain at least
// two entities with distinct identities; the store must start empty.
func RunEntityStoreContract[ID capability.Identifier, E entity.Entity[ID]](t *testing.T, store ports.EntityStore[ID, E], seed []E) {
	t.Helper()
	ctx := context.Background()

	if len(seed) < 2 {
		t.Fatalf("contract requires at least 2 seed entities, got %d", len(seed))
	}

	t.Run("GetMissing", func(t *testing.T) {
		_, found, err := store.Get(ctx, seed[0].EntityID())
		if err != nil {
			t.Fatalf("unexpected error getting missing entity: %v", err)
		}
		if found {
			t.Error("expected missing entity, got found=true")
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		for _, e := range seed {
			if err := store.Put(ctx, e.EntityID(), e); err != nil {
				t.Fatalf("unexpected error putting %s: %v", e.EntityID(), err)
			}
		}
		for _, e := range seed {
			got, found, err := store.Get(ctx, e.EntityID())
			if err != nil {
				t.Fatalf("unexpected error getting %s: %v", e.EntityID(), err)
			}
			if !found {
				t.Fatalf("entity %s missing after Put", e.EntityID())
			}
			if got.EntityID() != e.EntityID() {
				t.Errorf("identity mismatch. got %s, want %s", got.EntityID(), e.EntityID())
			}
		}
	})

	t.Run("List", func(t *testing.T) {
		all, err := store.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		if len(all) != len(seed) {
			t.Errorf("expected %d entities, got %d", len(seed), len(all))
		}

		lookup := make(map[string]bool)
		for _, e := range all {
			lookup[e.EntityID().String()] = true
		}
		for _, e := range seed {
			if !lookup[e.EntityID().String()] {
				t.Errorf("entity %s missing from list", e.EntityID())
			}
		}

		// Identity-sorted snapshot.
		for i := 1; i < len(all); i++ {
			if all[i-1].EntityID().String() > all[i].EntityID().String() {
				t.Errorf("list not sorted at %d: %s > %s", i, all[i-1].EntityID(), all[i].EntityID())
			}
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		e := seed[0]
		if err := store.Put(ctx, e.EntityID(), e); err != nil {
			t.Fatalf("unexpected error overwriting: %v", err)
		}
		all, err := store.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing: %v", err)
		}
		if len(all) != len(seed) {
			t.Errorf("overwrite changed entity count: got %d, want %d", len(all), len(seed))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		id := seed[0].EntityID()
		if err := store.Delete(ctx, id); err != nil {
			t.Fatalf("unexpected error deleting: %v", err)
		}
		_, found, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error getting deleted entity: %v", err)
		}
		if found {
			t.Error("entity still present after Delete")
		}

		// Deleting an absent id is not an error.
		if err := store.Delete(ctx, id); err != nil {
			t.Errorf("deleting absent id should be a no-op, got %v", err)
		}
	})
}
