// FILE: lixenwraith/layercfg/cache.go
package layercfg

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CacheOptionKey is the options key under which NewCache exposes itself.
const CacheOptionKey = "cache"

// Cache is a middleware memoising resolutions by resource list. Lists are
// compared by value, so two separately built but equal lists share an entry.
// Concurrent calls for the same list share a single underlying resolution.
// Failed resolutions are not cached.
type Cache struct {
	key string

	mu         sync.Mutex
	entries    map[string]any
	generation uint64

	group singleflight.Group
}

// NewCache creates a cache exposed under CacheOptionKey.
func NewCache() *Cache {
	return NewNamedCache(CacheOptionKey)
}

// NewNamedCache creates a cache exposed under a caller-chosen options key,
// for chains holding more than one cache.
func NewNamedCache(key string) *Cache {
	return &Cache{
		key:     key,
		entries: make(map[string]any),
	}
}

// Wrap implements Middleware.
func (c *Cache) Wrap(next ResolveFunc) (ResolveFunc, Options) {
	resolve := func(resources []Resource) (any, error) {
		key := resourcesKey(resources)

		c.mu.Lock()
		if tree, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return tree, nil
		}
		gen := c.generation
		c.mu.Unlock()

		// Flights are per generation: a caller arriving after Clear or Evict
		// never joins a resolution that started before it.
		flight := key + "#" + strconv.FormatUint(gen, 10)
		v, err, _ := c.group.Do(flight, func() (any, error) {
			// A flight that finished just before this one may have filled the entry
			c.mu.Lock()
			if tree, ok := c.entries[key]; ok && c.generation == gen {
				c.mu.Unlock()
				return tree, nil
			}
			c.mu.Unlock()

			tree, err := next(resources)
			if err != nil {
				return nil, err
			}

			c.mu.Lock()
			// Drop results that raced with Clear or Evict
			if c.generation == gen {
				c.entries[key] = tree
			}
			c.mu.Unlock()
			return tree, nil
		})
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	return resolve, Options{c.key: c}
}

// Clear removes every entry; the next call for any list resolves again.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
	c.generation++
}

// Evict removes the entry for one resource list and reports whether it existed.
func (c *Cache) Evict(resources []Resource) bool {
	key := resourcesKey(resources)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.generation++
	return ok
}

// Len returns the number of cached resource lists.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
