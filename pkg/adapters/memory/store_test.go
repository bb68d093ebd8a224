package memory_test

import (
	"context"
	"testing"

	"github.com/latticekit/lattice/pkg/adapters/memory"
	"github.com/latticekit/lattice/pkg/ports/storetest"
)

func TestStore_Contract(t *testing.T) {
	store := memory.NewStore[storetest.ItemID, storetest.Item]()
	storetest.RunEntityStoreContract(t, store, []storetest.Item{
		{ID: "a", Name: "first", Price: 1},
		{ID: "b", Name: "second", Price: 2},
	})
}

func TestStore_ReturnedEntitiesAreIsolated(t *testing.T) {
	store := memory.NewStore[storetest.ItemID, storetest.Item]()
	ctx := context.Background()

	item := storetest.Item{ID: "a", Name: "n", Price: 1, Tags: map[string]string{"k": "v"}}
	if err := store.Put(ctx, item.ID, item); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Mutating the caller's copy after Put must not reach the store.
	item.Tags["k"] = "mutated-after-put"

	got, found, err := store.Get(ctx, "a")
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if got.Tags["k"] != "v" {
		t.Errorf("store absorbed caller mutation: %q", got.Tags["k"])
	}

	// Mutating the returned copy must not reach the store either.
	got.Tags["k"] = "mutated-after-get"
	again, _, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Tags["k"] != "v" {
		t.Errorf("store absorbed reader mutation: %q", again.Tags["k"])
	}
}
