// Package store provides persistent storage for graphs.
//
// This package defines the Store interface for graph persistence, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI workflows
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for document persistence
//   - neo4j: Neo4j-backed storage keyed by graph id
//
// # Architecture
//
// Graphs are stored as documents keyed by id. The Store interface supports:
//   - Get/Save/Delete operations
//   - Listing of stored graph ids
//   - Clean shutdown via Close
//
// All implementations return ErrNotFound (checkable with errors.Is) when a
// graph id does not exist, and hand out independent copies so callers can
// mutate results freely.
//
// # Usage
//
// Create a store from configuration:
//
//	st, err := store.New(ctx, store.Config{Backend: store.BackendFile, Dir: "graphs"})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
// Save and load graphs:
//
//	if err := st.Save(ctx, "demo", g); err != nil {
//	    return err
//	}
//	g, err := st.Get(ctx, "demo")
//	if errors.Is(err, store.ErrNotFound) {
//	    // no such graph
//	}
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/observability"
)

// ErrNotFound is returned when a graph id does not exist in the store.
var ErrNotFound = errors.New("graph not found")

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNeo4j  = "neo4j"
)

// Store is the interface for graph storage backends.
type Store interface {
	// Get retrieves a graph by id.
	// Returns an error wrapping ErrNotFound if the id does not exist.
	Get(ctx context.Context, id string) (*graph.Graph, error)

	// Save stores a graph under the given id, replacing any previous graph.
	Save(ctx context.Context, id string, g *graph.Graph) error

	// Delete removes a graph.
	// Returns an error wrapping ErrNotFound if the id does not exist.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all stored graphs in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// Config selects and configures a storage backend.
type Config struct {
	// Backend is one of "memory", "file", "redis", "mongo" or "neo4j".
	// Empty defaults to "memory".
	Backend string `toml:"backend"`

	// Dir is the base directory for the file backend.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
	Neo4j Neo4jConfig `toml:"neo4j"`
}

// New creates a store for the configured backend. The returned store reports
// its operations through the observability store hooks.
func New(ctx context.Context, cfg Config) (Store, error) {
	var (
		st  Store
		err error
	)
	backend := cfg.Backend
	if backend == "" {
		backend = BackendMemory
	}
	switch backend {
	case BackendMemory:
		st = NewMemoryStore()
	case BackendFile:
		st, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		st, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		st, err = NewMongoStore(ctx, cfg.Mongo)
	case BackendNeo4j:
		st, err = NewNeo4jStore(ctx, cfg.Neo4j)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return instrumented{Store: st, backend: backend}, nil
}

// instrumented wraps a Store and reports each operation to the global
// observability store hooks.
type instrumented struct {
	Store
	backend string
}

func (s instrumented) Get(ctx context.Context, id string) (*graph.Graph, error) {
	g, err := s.Store.Get(ctx, id)
	observability.Store().OnGet(ctx, s.backend, id, err)
	return g, err
}

func (s instrumented) Save(ctx context.Context, id string, g *graph.Graph) error {
	err := s.Store.Save(ctx, id, g)
	observability.Store().OnSave(ctx, s.backend, id, err)
	return err
}

func (s instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	observability.Store().OnDelete(ctx, s.backend, id, err)
	return err
}
