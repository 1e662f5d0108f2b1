package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

func NewSingular[T any](key string) *Singular[T] {
	return &Singular[T]{
		key: key,
		c:   cache.New(cache.NoExpiration, time.Minute*10),
	}
}

// Singular caches exactly one value under a fixed key.
type Singular[T any] struct {
	// m is a mutex for MutexGetSet for concurrent prevention
	m sync.Mutex

	key string

	c *cache.Cache
}

func (c *Singular[T]) Get() (T, error) {
	result, ok := c.c.Get(c.key)
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return result.(T), nil
}

func (c *Singular[T]) Set(value T, expire time.Duration) {
	c.c.Set(c.key, value, expire)
}

// MutexGetSet returns the cached value, or computes it with valueFunc when the key is still
// absent once serially dispatched. calculated reports whether valueFunc ran.
func (c *Singular[T]) MutexGetSet(valueFunc func() (T, error), expire time.Duration) (value T, calculated bool, err error) {
	if value, err = c.Get(); err == nil {
		return value, false, nil
	}

	c.m.Lock()
	defer c.m.Unlock()
	if value, err = c.Get(); err == nil {
		return value, false, nil
	}

	value, err = valueFunc()
	if err != nil {
		log.Error().Err(err).Str("key", c.key).Msg("failed to get value from valueFunc() in MutexGetSet")
		return value, true, err
	}
	c.Set(value, expire)
	return value, true, nil
}

func (c *Singular[T]) Delete() {
	c.c.Flush()
}
