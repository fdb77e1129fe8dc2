// Package catalog caches the grading service's slow-moving catalogs
// (problems, languages) so repeated REPL commands do not refetch them.
package catalog

import (
	"container/list"
	"sync"
	"time"
)

type cacheEntry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// Cache is a small LRU cache with TTL support.
type Cache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
}

func New(maxSize int, ttl time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &Cache{
		items:   make(map[string]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
			c.removeElement(elem)
			return nil, false
		}
		c.order.MoveToFront(elem)
		return entry.value, true
	}
	return nil, false
}

// Set stores a value. A zero ttl uses the cache default; a negative ttl
// means no expiry.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp := time.Time{}
	if ttl == 0 {
		ttl = c.ttl
	}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = exp
		c.order.MoveToFront(elem)
		return
	}

	entry := &cacheEntry{key: key, value: value, expiresAt: exp}
	elem := c.order.PushFront(entry)
	c.items[key] = elem
	if len(c.items) > c.maxSize {
		c.evictOldest()
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

func (c *Cache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	c.removeElement(elem)
}

func (c *Cache) removeElement(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.items, entry.key)
	c.order.Remove(elem)
}
