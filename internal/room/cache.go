package room

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	cacheKeyActive = "rooms:active"
	cacheKeyRoom   = "rooms:id:"
)

// CachedCatalog is a read-through Redis cache in front of another Catalog.
// Redis errors are logged and fall through to the underlying catalog.
type CachedCatalog struct {
	next Catalog
	rdb  redis.Cmdable
	ttl  time.Duration
}

func NewCachedCatalog(next Catalog, rdb redis.Cmdable, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedCatalog{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedCatalog) ListActive(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if c.get(ctx, cacheKeyActive, &rooms) {
		return rooms, nil
	}
	rooms, err := c.next.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, cacheKeyActive, rooms)
	return rooms, nil
}

func (c *CachedCatalog) GetByID(ctx context.Context, id string) (*Room, error) {
	var rm Room
	if c.get(ctx, cacheKeyRoom+id, &rm) {
		return &rm, nil
	}
	got, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, cacheKeyRoom+id, got)
	return got, nil
}

// Invalidate drops every cached room entry for id plus the active listing.
func (c *CachedCatalog) Invalidate(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, cacheKeyActive, cacheKeyRoom+id).Err()
}

func (c *CachedCatalog) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("key", key).Warn("room cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("room cache entry corrupt")
		return false
	}
	return true
}

func (c *CachedCatalog) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("room cache write failed")
	}
}
