// Package catalog serves menu, table and promotion reads. Lists come
// from the backend through a short-lived Redis cache so a floor of
// terminals refreshing their screens does not hammer the backend.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/cart"
)

var ErrNotFound = errors.New("not found in catalog")

const (
	keyMenu       = "catalog:menu"
	keyTables     = "catalog:tables"
	keyPromotions = "catalog:promotions"
)

// API is the slice of the backend client the catalog reads through.
type API interface {
	ListMenuItems(ctx context.Context, token string) ([]backend.MenuItem, error)
	ListTables(ctx context.Context, token string) ([]backend.Table, error)
	ListPromotions(ctx context.Context, token string) ([]cart.Promotion, error)
}

// Cache is a read-through cache over the backend catalog endpoints. A nil
// Redis client disables caching and every read goes straight to the
// backend.
type Cache struct {
	api API
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(api API, rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{api: api, rdb: rdb, ttl: ttl}
}

func (c *Cache) MenuItems(ctx context.Context, token string) ([]backend.MenuItem, error) {
	return cached(ctx, c, keyMenu, token, c.api.ListMenuItems)
}

func (c *Cache) Tables(ctx context.Context, token string) ([]backend.Table, error) {
	return cached(ctx, c, keyTables, token, c.api.ListTables)
}

func (c *Cache) Promotions(ctx context.Context, token string) ([]cart.Promotion, error) {
	return cached(ctx, c, keyPromotions, token, c.api.ListPromotions)
}

// MenuItem resolves one item for cart additions. Unavailable items
// resolve as not found so they cannot be added.
func (c *Cache) MenuItem(ctx context.Context, token string, id uuid.UUID) (backend.MenuItem, error) {
	items, err := c.MenuItems(ctx, token)
	if err != nil {
		return backend.MenuItem{}, err
	}
	for _, item := range items {
		if item.ID == id && item.Available {
			return item, nil
		}
	}
	return backend.MenuItem{}, ErrNotFound
}

func (c *Cache) Table(ctx context.Context, token string, id uuid.UUID) (backend.Table, error) {
	tables, err := c.Tables(ctx, token)
	if err != nil {
		return backend.Table{}, err
	}
	for _, table := range tables {
		if table.ID == id {
			return table, nil
		}
	}
	return backend.Table{}, ErrNotFound
}

func (c *Cache) Promotion(ctx context.Context, token string, id uuid.UUID) (cart.Promotion, error) {
	promotions, err := c.Promotions(ctx, token)
	if err != nil {
		return cart.Promotion{}, err
	}
	for _, p := range promotions {
		if p.ID == id {
			return p, nil
		}
	}
	return cart.Promotion{}, ErrNotFound
}

// InvalidateTables drops the cached table list. Called after settlements
// so freed tables show up without waiting out the TTL.
func (c *Cache) InvalidateTables(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, keyTables).Err(); err != nil {
		log.Printf("ERROR: invalidate table cache: %v", err)
	}
}

// cached reads the key from Redis, falling back to the backend on a miss
// or any Redis error. The caller's token is only used on the fallback
// path; cached entries are shared by all authenticated terminals.
func cached[T any](ctx context.Context, c *Cache, key, token string, fetch func(context.Context, string) ([]T, error)) ([]T, error) {
	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var out []T
			if json.Unmarshal(data, &out) == nil {
				return out, nil
			}
		} else if err != redis.Nil {
			log.Printf("ERROR: read cache %s: %v", key, err)
		}
	}

	out, err := fetch(ctx, token)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
				log.Printf("ERROR: write cache %s: %v", key, err)
			}
		}
	}
	return out, nil
}
