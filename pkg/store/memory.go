package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// MemoryStore is an in-memory graph store for development and testing.
// Graphs are deep-copied on Save and Get so callers never share state with
// the store.
type MemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]*graph.Graph
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{graphs: make(map[string]*graph.Graph)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*graph.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.graphs[id]
	if !ok {
		return nil, fmt.Errorf("graph %q: %w", id, ErrNotFound)
	}
	return g.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, g *graph.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.graphs[id] = g.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.graphs[id]; !ok {
		return fmt.Errorf("graph %q: %w", id, ErrNotFound)
	}
	delete(s.graphs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.graphs))
	for id := range s.graphs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
