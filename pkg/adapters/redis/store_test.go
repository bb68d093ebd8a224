package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/latticekit/lattice/pkg/adapters/redis"
	"github.com/latticekit/lattice/pkg/ports/storetest"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestStore_Contract(t *testing.T) {
	client := newTestClient(t)
	store := redisadapter.NewFromClient[storetest.ItemID, storetest.Item](client)
	storetest.RunEntityStoreContract(t, store, []storetest.Item{
		{ID: "a", Name: "first", Price: 1},
		{ID: "b", Name: "second", Price: 2},
	})
}

func TestStore_RoundTripPreservesFields(t *testing.T) {
	client := newTestClient(t)
	store := redisadapter.NewFromClient[storetest.ItemID, storetest.Item](client, redisadapter.WithPrefix("test:item:"))
	ctx := context.Background()

	item := storetest.Item{ID: "a", Name: "Espresso", Price: 10.5, Tags: map[string]string{"origin": "BR"}}
	require.NoError(t, store.Put(ctx, item.ID, item))

	got, found, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, item, got)
}

func TestStore_TTLExpiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redisadapter.NewFromClient[storetest.ItemID, storetest.Item](client, redisadapter.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", storetest.Item{ID: "a", Name: "n", Price: 1}))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Expire the value; the index prunes lazily on List.
	mr.FastForward(2 * time.Second)

	_, found, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	all, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
