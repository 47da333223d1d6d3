package cache

import (
	"sync"
	"time"
)

// Item represents a cached value with expiration; zero Expiration never expires
type Item[V any] struct {
	Value      V
	Expiration int64
}

func (i Item[V]) expired(now int64) bool {
	return i.Expiration != 0 && now > i.Expiration
}

// Cache is a thread-safe in-memory cache
type Cache[V any] struct {
	items map[string]Item[V]
	mu    sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// New creates a new cache with the specified default TTL.
// A non-positive TTL keeps entries until they are replaced or deleted.
func New[V any](ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		items: make(map[string]Item[V]),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	if ttl > 0 {
		go c.cleanup(ttl)
	}

	return c
}

// Set stores a value in the cache with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiration int64
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}

	c.items[key] = Item[V]{
		Value:      value,
		Expiration: expiration,
	}
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	item, found := c.items[key]
	if !found || item.expired(time.Now().UnixNano()) {
		return zero, false
	}

	return item.Value, true
}

// GetOrSet retrieves a value from cache or sets it using the provided function
func (c *Cache[V]) GetOrSet(key string, fn func() (V, error)) (V, error) {
	if value, found := c.Get(key); found {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, value)
	return value, nil
}

// Close stops the cleanup goroutine
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanup removes expired items periodically
func (c *Cache[V]) cleanup(ttl time.Duration) {
	interval := time.Minute
	if ttl < interval {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now().UnixNano()
			for key, item := range c.items {
				if item.expired(now) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// Well-known keys
const (
	KeyLastGood = "breadcrumbs:last-good"
	KeyHost     = "system:host"
)
