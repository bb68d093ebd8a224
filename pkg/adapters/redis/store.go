// Package redis implements ports.EntityStore on a Redis backend.
// Entities are stored as JSON values with an accompanying ZSET index so
// List stays cheap. Durability tuning is left to the Redis deployment.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/latticekit/lattice/pkg/capability"
	"github.com/latticekit/lattice/pkg/entity"
)

// farFuture scores unexpiring index members: 2100-01-01.
const farFuture = 4102444800

// Store implements ports.EntityStore using Redis. The entity type must
// round-trip through encoding/json.
type Store[ID capability.Identifier, E entity.Entity[ID]] struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*options)

type options struct {
	prefix string
	ttl    time.Duration
}

// WithTTL sets the expiration for stored entities. Zero means no
// expiration.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored entities.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New[ID capability.Identifier, E entity.Entity[ID]](address, password string, db int, opts ...Option) *Store[ID, E] {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient[ID, E](rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient[ID capability.Identifier, E entity.Entity[ID]](client *backend.Client, opts ...Option) *Store[ID, E] {
	o := options{
		prefix: "lattice:entity:",
		ttl:    0,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[ID, E]{
		client: client,
		prefix: o.prefix,
		ttl:    o.ttl,
	}
}

func (s *Store[ID, E]) key(id ID) string {
	return s.prefix + id.String()
}

func (s *Store[ID, E]) indexKey() string {
	return s.prefix + "index"
}

// Get retrieves and unmarshals the entity for id.
func (s *Store[ID, E]) Get(ctx context.Context, id ID) (E, bool, error) {
	var zero E

	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to get from redis: %w", err)
	}

	var e E
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return e, true, nil
}

// Put marshals and stores the entity, maintaining the index.
func (s *Store[ID, E]) Put(ctx context.Context, id ID, e E) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(id), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: id.String(),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes the entity and its index member.
func (s *Store[ID, E]) Delete(ctx context.Context, id ID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List loads every live entity named by the index, lazily pruning
// members whose value has expired.
func (s *Store[ID, E]) List(ctx context.Context) ([]E, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "0", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune index: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	out := make([]E, 0, len(members))
	for _, member := range members {
		val, err := s.client.Get(ctx, s.prefix+member).Result()
		if err != nil {
			if err == backend.Nil {
				// Value expired between prune and read.
				continue
			}
			return nil, fmt.Errorf("failed to get %s from redis: %w", member, err)
		}
		var e E
		if err := json.Unmarshal([]byte(val), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", member, err)
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EntityID().String() < out[j].EntityID().String()
	})
	return out, nil
}
