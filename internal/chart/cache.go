package chart

import (
	"sync"

	"github.com/lox/faixaclima/internal/metrics"
)

// Cache memoizes rendered charts by key. Charts of immutable data never go
// stale, so entries live for the process lifetime up to a fixed count.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	max     int
}

func NewCache(max int) *Cache {
	return &Cache{
		entries: make(map[string][]byte),
		max:     max,
	}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

// Set stores data unless the cache is full. Existing keys are replaced.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.max {
		return
	}
	c.entries[key] = data
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Render returns the cached chart for key, rendering and storing it on a
// miss. name labels the render metric.
func (c *Cache) Render(key, name string, render func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}
	data, err := render()
	if err != nil {
		return nil, err
	}
	metrics.ChartRenders.WithLabelValues(name).Inc()
	c.Set(key, data)
	return data, nil
}
