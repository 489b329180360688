package cache

import (
	"sort"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements Cache on top of go-cache with expiration disabled.
// go-cache serializes access internally, so concurrent writers to one key end
// with the last write.
type MemoryCache[V any] struct {
	cache *gocache.Cache
}

// NewMemoryCache creates an empty memory cache
func NewMemoryCache[V any]() *MemoryCache[V] {
	return &MemoryCache[V]{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	if val, found := c.cache.Get(key); found {
		if typed, ok := val.(V); ok {
			return typed, true
		}
	}
	var zero V
	return zero, false
}

// Set stores a value for the lifetime of the cache
func (c *MemoryCache[V]) Set(key string, value V) {
	c.cache.Set(key, value, gocache.NoExpiration)
}

// Keys returns all cached keys in sorted order
func (c *MemoryCache[V]) Keys() []string {
	items := c.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of cached entries
func (c *MemoryCache[V]) Len() int {
	return c.cache.ItemCount()
}

// Clear removes all values from the cache
func (c *MemoryCache[V]) Clear() {
	c.cache.Flush()
}
