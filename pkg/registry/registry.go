// Package registry implements the process-wide, uniqueness-enforcing lookup
// tables populated once at boot by the package loader: dungeons, abilities,
// races, jobs, helpfiles, commands, boards, and well-known locations.
package registry

import (
	"fmt"
	"sync"

	"golang.org/x/exp/slices"
)

// Store is a generic uniqueness-enforcing map keyed by id, the common shape
// every concrete registry below is built from.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewStore constructs an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// Register adds id, refusing a duplicate.
func (s *Store[T]) Register(id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; exists {
		return fmt.Errorf("registry: %q is already registered", id)
	}
	s.items[id] = item
	return nil
}

// Put registers id, overwriting any existing entry. Used by registries that
// are hot-reloadable (commands) or that mutate during play (boards).
func (s *Store[T]) Put(id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
}

// Get looks up id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	return v, ok
}

// Remove deletes id, if present.
func (s *Store[T]) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// IDs returns every registered id in sorted order, for deterministic
// iteration (save ordering, listing commands, etc).
func (s *Store[T]) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.items))
	for id := range s.items {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// All returns every registered value, ordered by id.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id])
	}
	return out
}

// Len reports the number of registered entries.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
