package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/maypok86/otter/v2"
	"go.uber.org/zap"
)

// CacheMetrics tracks cache performance
type CacheMetrics struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	Size   int   `json:"size"`
}

// UnifiedCache is a bounded, expiring cache keyed by string. Eviction and
// expiry are handled by otter.
type UnifiedCache[T any] struct {
	store  *otter.Cache[string, T]
	ttl    time.Duration
	name   string
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewUnifiedCache creates a cache holding at most maxSize entries, each
// expiring ttl after it was written.
func NewUnifiedCache[T any](ttl time.Duration, maxSize int, name string, logger *zap.Logger) *UnifiedCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSize <= 0 {
		maxSize = 1000
	}
	store := otter.Must(&otter.Options[string, T]{
		MaximumSize:      maxSize,
		InitialCapacity:  min(maxSize, 64),
		ExpiryCalculator: otter.ExpiryWriting[string, T](ttl),
	})
	return &UnifiedCache[T]{
		store:  store,
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
}

// Name identifies the cache in logs and metrics.
func (c *UnifiedCache[T]) Name() string { return c.name }

// Set stores an item in the cache with the given key
func (c *UnifiedCache[T]) Set(key string, value T) {
	c.store.Set(key, value)
	c.sets.Add(1)

	c.logger.Debug("Cache set",
		zap.String("cache", c.name),
		zap.String("key", key),
		zap.Duration("ttl", c.ttl),
	)
}

// Get retrieves an unexpired item from the cache
func (c *UnifiedCache[T]) Get(key string) (T, bool) {
	value, found := c.store.GetIfPresent(key)
	if !found {
		c.misses.Add(1)
		c.logger.Debug("Cache miss",
			zap.String("cache", c.name),
			zap.String("key", key),
		)
		return value, false
	}

	c.hits.Add(1)
	c.logger.Debug("Cache hit",
		zap.String("cache", c.name),
		zap.String("key", key),
	)
	return value, true
}

// Delete removes an item from the cache
func (c *UnifiedCache[T]) Delete(key string) {
	c.store.Invalidate(key)
}

// Clear removes all items from the cache
func (c *UnifiedCache[T]) Clear() {
	c.store.InvalidateAll()
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// Size returns the approximate number of live entries
func (c *UnifiedCache[T]) Size() int {
	return c.store.EstimatedSize()
}

// GetMetrics returns current cache metrics
func (c *UnifiedCache[T]) GetMetrics() CacheMetrics {
	return CacheMetrics{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Sets:   c.sets.Load(),
		Size:   c.Size(),
	}
}

// CacheKeyBuilder helps build consistent cache keys
type CacheKeyBuilder struct {
	components []map[string]any
}

// NewCacheKeyBuilder creates a new cache key builder
func NewCacheKeyBuilder() *CacheKeyBuilder {
	return &CacheKeyBuilder{components: make([]map[string]any, 0, 4)}
}

// Add adds a named component to the cache key
func (b *CacheKeyBuilder) Add(key string, value any) *CacheKeyBuilder {
	b.components = append(b.components, map[string]any{key: value})
	return b
}

// Build generates the final cache key as an MD5 hash of the components
func (b *CacheKeyBuilder) Build() (string, error) {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key components: %w", err)
	}
	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}
