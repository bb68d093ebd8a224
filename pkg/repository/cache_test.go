package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticekit/lattice/pkg/ports/storetest"
	"github.com/latticekit/lattice/pkg/repository"
)

func TestCachedRepository_ReadThrough(t *testing.T) {
	inner := newRepo()
	cached := repository.NewCached(inner, time.Minute)
	ctx := context.Background()

	item := storetest.Item{ID: "a", Name: "n", Price: 1}
	require.NoError(t, cached.Create(ctx, item))

	// Served from cache even after the entity is removed underneath.
	_, err := inner.Delete(ctx, "a")
	require.NoError(t, err)

	got, err := cached.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestCachedRepository_MutationsKeepCacheCoherent(t *testing.T) {
	cached := repository.NewCached(newRepo(), time.Minute)
	ctx := context.Background()

	require.NoError(t, cached.Create(ctx, storetest.Item{ID: "a", Name: "n", Price: 1}))
	require.NoError(t, cached.Update(ctx, storetest.Item{ID: "a", Name: "renamed", Price: 2}))

	got, err := cached.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	_, err = cached.Delete(ctx, "a")
	require.NoError(t, err)

	_, err = cached.FindByID(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCachedRepository_CachedValueIsIsolated(t *testing.T) {
	cached := repository.NewCached(newRepo(), time.Minute)
	ctx := context.Background()

	require.NoError(t, cached.Create(ctx, storetest.Item{ID: "a", Name: "n", Price: 1, Tags: map[string]string{"k": "v"}}))

	first, err := cached.FindByID(ctx, "a")
	require.NoError(t, err)
	first.Tags["k"] = "mutated"

	second, err := cached.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v", second.Tags["k"])
}
