// Package checkpoint saves and loads named snapshots of a drill session.
//
// The Manager encodes a model.Checkpoint as JSON and hands the bytes to a
// Storage backend. Backends report unknown names with an error matching
// fs.ErrNotExist; the Manager turns that into ErrNotFound.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/pavelanni/drill/internal/model"
)

var (
	// ErrNotFound is returned when no checkpoint is stored under a name.
	ErrNotFound = errors.New("checkpoint: not found")
	// ErrWriteFailure wraps any error the backend reports while saving.
	ErrWriteFailure = errors.New("checkpoint: write failed")
	// ErrInvalidName is returned for empty names and names that could
	// escape the storage namespace.
	ErrInvalidName = errors.New("checkpoint: invalid name")
)

// Storage persists opaque snapshot bytes under a normalized name.
type Storage interface {
	WriteSnapshot(ctx context.Context, name string, data []byte) error
	ReadSnapshot(ctx context.Context, name string) ([]byte, error)
	ListSnapshots(ctx context.Context) ([]string, error)
	DeleteSnapshot(ctx context.Context, name string) error
}

// Manager implements scheduler.Saver on top of a Storage.
type Manager struct {
	Storage Storage
}

// New returns a Manager writing to st.
func New(st Storage) *Manager {
	return &Manager{Storage: st}
}

// NormalizeName lower-cases name and joins its words with "-".
func NormalizeName(name string) (string, error) {
	n := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	if n == "" {
		return "", ErrInvalidName
	}
	if strings.ContainsAny(n, `/\`) || strings.HasPrefix(n, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return n, nil
}

// Save writes cp under name. Backend errors are wrapped in ErrWriteFailure
// and not retried.
func (m *Manager) Save(ctx context.Context, name string, cp model.Checkpoint) error {
	n, err := NormalizeName(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", ErrWriteFailure, n, err)
	}
	if err := m.Storage.WriteSnapshot(ctx, n, data); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrWriteFailure, n, err)
	}
	slog.Info("checkpoint saved", "name", n, "index", cp.Index, "queue", len(cp.Queue))
	return nil
}

// Load reads the checkpoint stored under name.
func (m *Manager) Load(ctx context.Context, name string) (model.Checkpoint, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return model.Checkpoint{}, err
	}
	data, err := m.Storage.ReadSnapshot(ctx, n)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Checkpoint{}, fmt.Errorf("%w: %q", ErrNotFound, n)
	}
	if err != nil {
		return model.Checkpoint{}, fmt.Errorf("read checkpoint %q: %w", n, err)
	}
	var cp model.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return model.Checkpoint{}, fmt.Errorf("decode checkpoint %q: %w", n, err)
	}
	return cp, nil
}

// List returns the names of all stored checkpoints, sorted.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	names, err := m.Storage.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes the checkpoint stored under name.
func (m *Manager) Delete(ctx context.Context, name string) error {
	n, err := NormalizeName(name)
	if err != nil {
		return err
	}
	err = m.Storage.DeleteSnapshot(ctx, n)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrNotFound, n)
	}
	if err != nil {
		return fmt.Errorf("delete checkpoint %q: %w", n, err)
	}
	return nil
}
