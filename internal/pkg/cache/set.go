package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

func NewSet[T any](prefix string) *Set[T] {
	return &Set[T]{
		prefix: prefix + ":",
		c:      cache.New(cache.NoExpiration, time.Minute*10),
	}
}

// Set caches values of one type under prefixed keys.
type Set[T any] struct {
	// m is a mutex for MutexGetSet for concurrent prevention
	m sync.Mutex

	prefix string

	c *cache.Cache
}

func (c *Set[T]) key(key string) string {
	return c.prefix + key
}

func (c *Set[T]) Get(key string) (T, error) {
	result, ok := c.c.Get(c.key(key))
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return result.(T), nil
}

func (c *Set[T]) Set(key string, value T, expire time.Duration) {
	if l := log.Trace(); l.Enabled() {
		l.Str("key", c.key(key)).Msg("setting value to cache")
	}
	c.c.Set(c.key(key), value, expire)
}

// MutexGetSet returns the value cached under key, or computes it with valueFunc when the key
// is still absent once serially dispatched. calculated reports whether valueFunc ran.
func (c *Set[T]) MutexGetSet(key string, valueFunc func() (T, error), expire time.Duration) (value T, calculated bool, err error) {
	if value, err = c.Get(key); err == nil {
		return value, false, nil
	}

	c.m.Lock()
	defer c.m.Unlock()
	if value, err = c.Get(key); err == nil {
		return value, false, nil
	}

	value, err = valueFunc()
	if err != nil {
		log.Error().Err(err).Str("key", c.key(key)).Msg("failed to get value from valueFunc() in MutexGetSet")
		return value, true, err
	}
	c.Set(key, value, expire)
	return value, true, nil
}

func (c *Set[T]) Delete(key string) {
	c.c.Delete(c.key(key))
}

func (c *Set[T]) Clear() {
	c.c.Flush()
}

func (c *Set[T]) Len() int {
	return c.c.ItemCount()
}
