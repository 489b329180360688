package cache

// Cache defines the interface for process-lifetime memoization.
// Entries never expire and are never refreshed once written.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Keys() []string
	Len() int
	Clear()
}

// CacheKey generates a namespaced cache key for an identifier
func CacheKey(namespace string, id string) string {
	return "artgraph:v1:" + namespace + ":" + id
}
