package store

import (
	"context"
	"sync"
)

// MemoryStore keeps shared diagrams in process memory. Suitable for
// single-instance deployments and tests; records vanish on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]Diagram
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{diagrams: make(map[string]Diagram)}
}

// Put stores a copy of the diagram.
func (s *MemoryStore) Put(ctx context.Context, d *Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagrams[d.ID] = *d
	return nil
}

// Get retrieves a diagram by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
