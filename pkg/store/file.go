package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// FileStore is a file-based graph store for CLI workflows.
// Each graph is stored as one indented JSON file named <id>.json under the
// base directory. Ids are validated before touching the filesystem since
// they become file names.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/graphlayouts/graphs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "graphlayouts", "graphs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) graphPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*graph.Graph, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.graphPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("graph %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("read graph file: %w", err)
	}

	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		return nil, fmt.Errorf("parse graph %q: %w", id, err)
	}
	return g, nil
}

func (s *FileStore) Save(ctx context.Context, id string, g *graph.Graph) error {
	if err := errors.ValidateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := graph.MarshalGraph(g)
	if err != nil {
		return fmt.Errorf("marshal graph %q: %w", id, err)
	}

	// Write to a temp file in the same directory and rename so readers
	// never observe a partially written graph.
	path := s.graphPath(id)
	tmp, err := os.CreateTemp(s.baseDir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write graph file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close graph file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod graph file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename graph file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.graphPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("graph %q: %w", id, ErrNotFound)
		}
		return fmt.Errorf("remove graph file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for graph files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
