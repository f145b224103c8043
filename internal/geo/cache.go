package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/joseph-ayodele/minutas/internal/metrics"
)

// Cache tiers reported to metrics.
const (
	TierMemory = "memory"
	TierRedis  = "redis"
	TierSource = "source"
)

// Store is a shared copy of the table that outlives the process.
// Load returns (nil, nil) when nothing is stored.
type Store interface {
	Load(ctx context.Context) (*Table, error)
	Save(ctx context.Context, t *Table, ttl time.Duration) error
	Delete(ctx context.Context) error
}

// RedisStore keeps the table rows as one JSON value under a fixed key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore wraps client. An empty key falls back to "minutas:ubigeo:table".
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "minutas:ubigeo:table"
	}
	return &RedisStore{client: client, key: key}
}

// Load reads the stored table.
func (s *RedisStore) Load(ctx context.Context) (*Table, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode stored ubigeo table: %w", err)
	}
	return NewTable(rows), nil
}

// Save stores the table; a zero ttl never expires.
func (s *RedisStore) Save(ctx context.Context, t *Table, ttl time.Duration) error {
	raw, err := json.Marshal(t.Rows())
	if err != nil {
		return fmt.Errorf("encode ubigeo table: %w", err)
	}
	return s.client.Set(ctx, s.key, raw, ttl).Err()
}

// Delete drops the stored table.
func (s *RedisStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// TableCache holds the reference table in memory for ttl (0 keeps it for the life of the
// process), optionally backed by a Store. Concurrent misses share one load.
type TableCache struct {
	source  Source
	store   Store
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics

	group    singleflight.Group
	mu       sync.RWMutex
	table    *Table
	loadedAt time.Time
}

// CacheOption configures a TableCache.
type CacheOption func(*TableCache)

// WithStore adds a shared tier consulted before the source.
func WithStore(s Store) CacheOption {
	return func(c *TableCache) { c.store = s }
}

// WithTTL sets how long a loaded table stays fresh.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *TableCache) { c.ttl = ttl }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *TableCache) { c.now = now }
}

// WithCacheMetrics records loads per tier.
func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *TableCache) { c.metrics = m }
}

// NewTableCache builds a cache in front of source.
func NewTableCache(source Source, logger *slog.Logger, opts ...CacheOption) *TableCache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &TableCache{
		source: source,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the cached table, loading it on a miss or after expiry. The load runs
// with the context of the caller that started it.
func (c *TableCache) Get(ctx context.Context) (*Table, error) {
	if t := c.fresh(); t != nil {
		c.metrics.IncGeoTableLoad(TierMemory, "hit")
		return t, nil
	}
	v, err, _ := c.group.Do("table", func() (any, error) {
		if t := c.fresh(); t != nil {
			return t, nil
		}
		return c.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Invalidate forgets the memory copy and the shared copy, so the next Get goes to the source.
func (c *TableCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.table = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	if err := c.store.Delete(ctx); err != nil {
		return fmt.Errorf("invalidate stored ubigeo table: %w", err)
	}
	return nil
}

func (c *TableCache) fresh() *Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.table == nil {
		return nil
	}
	if c.ttl > 0 && c.now().Sub(c.loadedAt) >= c.ttl {
		return nil
	}
	return c.table
}

func (c *TableCache) set(t *Table) {
	c.mu.Lock()
	c.table = t
	c.loadedAt = c.now()
	c.mu.Unlock()
}

func (c *TableCache) load(ctx context.Context) (*Table, error) {
	if c.store != nil {
		t, err := c.store.Load(ctx)
		switch {
		case err != nil:
			c.metrics.IncGeoTableLoad(TierRedis, "error")
			c.logger.Warn("geo.cache.store_load_error", "error", err)
		case t.Len() > 0:
			c.metrics.IncGeoTableLoad(TierRedis, "hit")
			c.set(t)
			return t, nil
		default:
			c.metrics.IncGeoTableLoad(TierRedis, "miss")
		}
	}

	t, err := c.source.FetchAll(ctx)
	if err != nil {
		c.metrics.IncGeoTableLoad(TierSource, "error")
		return nil, err
	}
	c.metrics.IncGeoTableLoad(TierSource, "ok")
	c.set(t)

	if c.store != nil && t.Len() > 0 {
		if err := c.store.Save(ctx, t, c.ttl); err != nil {
			c.logger.Warn("geo.cache.store_save_error", "error", err)
		}
	}
	return t, nil
}
