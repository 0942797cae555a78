package auth

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the fetcher cache in long-lived multi-tenant
// processes. Each distinct credential context holds one entry.
const DefaultCacheSize = 128

// FetcherCache caches one fetcher per credential fingerprint with LRU
// eviction.
//
// The single mutex makes insert-on-miss atomic: two concurrent resolutions
// of the same context construct at most one fetcher, and the first writer
// wins. The lock only guards cache access and construction, never the
// fetchers' own network calls, so unrelated tenants are not serialized
// behind each other's I/O beyond construction time.
type FetcherCache[T any] struct {
	mu    sync.Mutex
	cache *lru.Cache[string, T]
}

// NewFetcherCache creates a cache holding at most size fetchers.
func NewFetcherCache[T any](size int) (*FetcherCache[T], error) {
	c, err := lru.New[string, T](size)
	if err != nil {
		return nil, err
	}
	return &FetcherCache[T]{cache: c}, nil
}

// GetOrCreate returns the cached fetcher for the credential context,
// constructing and inserting it on a miss. If build fails nothing is
// cached and the error is returned.
func (f *FetcherCache[T]) GetOrCreate(creds Context, build func(Context) (T, error)) (T, error) {
	key := creds.Fingerprint()

	f.mu.Lock()
	defer f.mu.Unlock()

	if cached, ok := f.cache.Get(key); ok {
		return cached, nil
	}

	fetcher, err := build(creds)
	if err != nil {
		var zero T
		return zero, err
	}
	f.cache.Add(key, fetcher)
	return fetcher, nil
}

// Len returns the number of cached fetchers.
func (f *FetcherCache[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.Len()
}
