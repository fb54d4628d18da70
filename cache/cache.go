// Package cache holds the in-memory view of one directory entity type.
package cache

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Cache - entities keyed by id. It never talks to the backing store.
type Cache[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	clone func(T) T
}

// New - empty cache; clone, when set, copies values on the way in and out
func New[T any](clone func(T) T) *Cache[T] {
	return &Cache[T]{items: make(map[string]T), clone: clone}
}

func (c *Cache[T]) copy(v T) T {
	if c.clone == nil {
		return v
	}
	return c.clone(v)
}

// Get - looks up one entity
func (c *Cache[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		return v, false
	}
	return c.copy(v), true
}

// Put - inserts or replaces an entity
func (c *Cache[T]) Put(id string, v T) {
	v = c.copy(v)
	c.mu.Lock()
	c.items[id] = v
	c.mu.Unlock()
}

// Remove - deletes an entity, reporting whether it was present
func (c *Cache[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id]
	delete(c.items, id)
	return ok
}

// Clear - drops every entity
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]T)
	c.mu.Unlock()
}

// Size - number of entities
func (c *Cache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// IDs - every id in ascending string order
func (c *Cache[T]) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := maps.Keys(c.items)
	slices.Sort(ids)
	return ids
}

// Snapshot - every entity ordered by id ascending, in string order
func (c *Cache[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := maps.Keys(c.items)
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.copy(c.items[id]))
	}
	return out
}

// Replace - swaps the whole content in one step
func (c *Cache[T]) Replace(items map[string]T) {
	next := make(map[string]T, len(items))
	for id, v := range items {
		next[id] = c.copy(v)
	}
	c.mu.Lock()
	c.items = next
	c.mu.Unlock()
}

// Each - visits entities in id order until fn returns false
func (c *Cache[T]) Each(fn func(id string, v T) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := maps.Keys(c.items)
	slices.Sort(ids)
	for _, id := range ids {
		if !fn(id, c.copy(c.items[id])) {
			return
		}
	}
}
