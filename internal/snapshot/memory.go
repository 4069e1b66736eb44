package snapshot

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pavelanni/drill/internal/checkpoint"
)

var _ checkpoint.Storage = (*MemoryStore)(nil)

// MemoryStore keeps snapshots for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) WriteSnapshot(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[name] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) ReadSnapshot(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[name]
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) ListSnapshots(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	return names, nil
}

func (s *MemoryStore) DeleteSnapshot(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[name]; !ok {
		return fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	delete(s.items, name)
	return nil
}
