package leverage

import "sync"

// Cache stores computed leverage values keyed by the six-field game state.
// Implementations must be safe for concurrent use. Because identical keys
// always produce identical values, redundant Put calls are harmless.
type Cache interface {
	Get(key Key) (float64, bool)
	Put(key Key, value float64)
	Len() int
}

// mapCache is an unbounded concurrency-safe cache. Safe to leave unbounded
// because the key space (inning x half x outs x base code x bounded score
// range) is finite and small.
type mapCache struct {
	mu     sync.RWMutex
	values map[Key]float64
}

// NewMapCache returns an unbounded cache.
func NewMapCache() Cache {
	return &mapCache{values: make(map[Key]float64)}
}

func (c *mapCache) Get(key Key) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *mapCache) Put(key Key, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *mapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

// node is a singly linked list entry used for LIFO eviction.
type node struct {
	key  Key
	next *node
}

// boundedCache keeps at most maxSize entries, evicting the oldest entry
// LIFO style. Intended for long-running batch consumers that want a hard
// memory bound.
type boundedCache struct {
	mu      sync.Mutex
	values  map[Key]float64
	seen    map[Key]*node
	head    *node
	maxSize int
}

// NewBoundedCache returns a cache holding at most maxSize entries.
// A non-positive maxSize falls back to the unbounded cache.
func NewBoundedCache(maxSize int) Cache {
	if maxSize <= 0 {
		return NewMapCache()
	}
	return &boundedCache{
		values:  make(map[Key]float64),
		seen:    make(map[Key]*node),
		maxSize: maxSize,
	}
}

func (c *boundedCache) Get(key Key) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *boundedCache) Put(key Key, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.values[key]; exists {
		c.values[key] = value
		return
	}
	if len(c.values) >= c.maxSize {
		c.evictOldest()
	}
	n := &node{key: key, next: c.head}
	c.head = n
	c.seen[key] = n
	c.values[key] = value
}

// evictOldest drops the tail of the insertion list. Caller holds c.mu.
func (c *boundedCache) evictOldest() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.values, c.head.key)
		delete(c.seen, c.head.key)
		c.head = nil
		return
	}
	prev := c.head
	cur := c.head.next
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}
	prev.next = nil
	delete(c.values, cur.key)
	delete(c.seen, cur.key)
}

func (c *boundedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// nopCache disables memoization entirely.
type nopCache struct{}

// NewNopCache returns a cache that stores nothing.
func NewNopCache() Cache { return nopCache{} }

func (nopCache) Get(Key) (float64, bool) { return 0, false }
func (nopCache) Put(Key, float64)        {}
func (nopCache) Len() int                { return 0 }
