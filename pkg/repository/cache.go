package repository

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/latticekit/lattice/pkg/capability"
	"github.com/latticekit/lattice/pkg/entity"
)

// CachedRepository decorates a Repository with a read-through TTL cache
// keyed on the string rendering of identities. Useful in front of remote
// stores where FindByID dominates.
type CachedRepository[ID capability.Identifier, E entity.Storable[ID, E]] struct {
	repo  *Repository[ID, E]
	cache *gocache.Cache
}

// NewCached wraps repo with a cache whose entries expire after ttl.
func NewCached[ID capability.Identifier, E entity.Storable[ID, E]](repo *Repository[ID, E], ttl time.Duration) *CachedRepository[ID, E] {
	return &CachedRepository[ID, E]{
		repo:  repo,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Create delegates and primes the cache on success.
func (c *CachedRepository[ID, E]) Create(ctx context.Context, e E) error {
	if err := c.repo.Create(ctx, e); err != nil {
		return err
	}
	c.cache.Set(e.EntityID().String(), e.Clone(), gocache.DefaultExpiration)
	return nil
}

// Update delegates and refreshes the cached value on success.
func (c *CachedRepository[ID, E]) Update(ctx context.Context, e E) error {
	if err := c.repo.Update(ctx, e); err != nil {
		return err
	}
	c.cache.Set(e.EntityID().String(), e.Clone(), gocache.DefaultExpiration)
	return nil
}

// Delete delegates and invalidates the cached value on success.
func (c *CachedRepository[ID, E]) Delete(ctx context.Context, id ID) (E, error) {
	e, err := c.repo.Delete(ctx, id)
	if err != nil {
		return e, err
	}
	c.cache.Delete(id.String())
	return e, nil
}

// FindByID serves from cache when possible, falling back to the
// underlying repository and caching the result.
func (c *CachedRepository[ID, E]) FindByID(ctx context.Context, id ID) (E, error) {
	if v, ok := c.cache.Get(id.String()); ok {
		return v.(E).Clone(), nil
	}
	e, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return e, err
	}
	c.cache.Set(id.String(), e.Clone(), gocache.DefaultExpiration)
	return e, nil
}

// FindAll always hits the underlying repository; listing is not cached.
func (c *CachedRepository[ID, E]) FindAll(ctx context.Context) ([]E, error) {
	return c.repo.FindAll(ctx)
}
