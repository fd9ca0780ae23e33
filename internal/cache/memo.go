package cache

import (
	"golang.org/x/sync/singleflight"
)

// Memo caches the results of an expensive computation. Concurrent calls for
// the same key share one computation; errors are returned but not cached.
type Memo[T any] struct {
	store Cache[T]
	group singleflight.Group
}

// NewMemo wraps a cache.
func NewMemo[T any](store Cache[T]) *Memo[T] {
	return &Memo[T]{store: store}
}

// Do returns the cached value for key or computes it with fn. hit reports
// whether the value came from the cache.
func (m *Memo[T]) Do(key string, fn func() (T, error)) (value T, hit bool, err error) {
	if v, ok := m.store.Get(key); ok {
		return v, true, nil
	}
	res, err, _ := m.group.Do(key, func() (any, error) {
		v, err := fn()
		if err != nil {
			return v, err
		}
		m.store.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return res.(T), false, nil
}
