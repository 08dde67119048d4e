package visualcrossing

import (
	"context"
	"sync"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

// CachedSource wraps a WeatherSource with an in-memory LRU keyed by
// (location, date). The first outcome for a key, success or failure, is
// replayed for every later row with the same key.
type CachedSource struct {
	inner   domain.WeatherSource
	cache   *lruCache[dayEntry]
	metrics *observability.Metrics
}

// dayEntry is one cached provider outcome.
type dayEntry struct {
	hours []domain.HourSample
	err   error
}

// NewCachedSource creates a cache decorator around a weather source.
func NewCachedSource(inner domain.WeatherSource, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache[dayEntry](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSource) HourlyObservations(ctx context.Context, coords domain.Coordinates, date string) ([]domain.HourSample, error) {
	key := coords.Location() + "|" + date
	if e, ok := c.cache.get(key); ok {
		c.metrics.WeatherCache.WithLabelValues("memory", "hit").Inc()
		return e.hours, e.err
	}
	c.metrics.WeatherCache.WithLabelValues("memory", "miss").Inc()

	hours, err := c.inner.HourlyObservations(ctx, coords, date)
	// A cancelled run says nothing about the provider; don't pin it.
	if ctx.Err() == nil {
		c.cache.put(key, dayEntry{hours: hours, err: err})
	}
	return hours, err
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	tail := c.tail
	delete(c.entries, tail.key)
	c.remove(tail)
}
