package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is the key/value surface the loaders need. *gocache.Cache satisfies it.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// New creates an isolated in-memory store whose expired entries are swept
// every cleanupInterval.
func New(cleanupInterval time.Duration) *gocache.Cache {
	return gocache.New(gocache.NoExpiration, cleanupInterval)
}

// GetOrLoad returns the value stored under key while it is younger than ttl.
// Otherwise it calls load and stores the result for ttl. A failed load stores
// nothing and returns the loader's error.
func GetOrLoad[T any](ctx context.Context, store Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if cached, found := store.Get(key); found {
		if value, ok := cached.(T); ok {
			return value, nil
		}
		var zero T
		return zero, fmt.Errorf("cache entry %q holds %T", key, cached)
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	// go-cache serves an entry until now > expiration, i.e. still at age
	// exactly ttl. Shorten by one tick so only ages below ttl are served.
	// A ttl of one tick or less would mean "never expire" to go-cache.
	if ttl > time.Nanosecond {
		store.Set(key, value, ttl-time.Nanosecond)
	}
	return value, nil
}
