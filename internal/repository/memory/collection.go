// Package memory keeps every repository in process memory. Values are cloned
// on the way in and on the way out, so callers never alias stored state.
package memory

import (
	"alcyxob/coach-platform/internal/repository"
	"sync"
)

// collection is an insertion-ordered map of values guarded by a mutex.
type collection[T any] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
	clone func(T) T
}

func newCollection[T any](clone func(T) T) *collection[T] {
	return &collection[T]{
		items: make(map[string]T),
		clone: clone,
	}
}

func (c *collection[T]) insert(id string, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; exists {
		return repository.ErrConflict
	}
	c.items[id] = c.clone(v)
	c.order = append(c.order, id)
	return nil
}

// insertUnless inserts v unless a stored value matches clash. The check and
// the insert happen under one lock.
func (c *collection[T]) insertUnless(id string, v T, clash func(T) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[id]; exists {
		return repository.ErrConflict
	}
	for _, stored := range c.items {
		if clash(stored) {
			return repository.ErrConflict
		}
	}
	c.items[id] = c.clone(v)
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return c.clone(v), nil
}

// find returns the first value, in insertion order, matching pred.
func (c *collection[T]) find(pred func(T) bool) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if v := c.items[id]; pred(v) {
			return c.clone(v), nil
		}
	}
	var zero T
	return zero, repository.ErrNotFound
}

// filter returns every value matching pred in insertion order. A nil pred
// matches everything.
func (c *collection[T]) filter(pred func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		v := c.items[id]
		if pred == nil || pred(v) {
			out = append(out, c.clone(v))
		}
	}
	return out
}

// update applies mutate to a private copy and stores it only on success.
func (c *collection[T]) update(id string, mutate func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	v, ok := c.items[id]
	if !ok {
		return zero, repository.ErrNotFound
	}
	next := c.clone(v)
	if err := mutate(&next); err != nil {
		return zero, err
	}
	c.items[id] = next
	return c.clone(next), nil
}

func (c *collection[T]) remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}
