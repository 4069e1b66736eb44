// Package snapshot holds the checkpoint.Storage backends that live outside
// SQLite: JSON files next to the quizzes, Redis and process memory.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pavelanni/drill/internal/checkpoint"
)

// FilePrefix marks snapshot files in the words directory. Quiz listings skip
// files carrying it.
const FilePrefix = "xx-inprogress-"

const fileExt = ".json"

var _ checkpoint.Storage = (*FileStore)(nil)

// FileStore keeps each snapshot in Dir as xx-inprogress-<name>.json.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.Dir, FilePrefix+name+fileExt)
}

// WriteSnapshot writes to a temporary file first so a failed write never
// leaves a truncated snapshot behind.
func (s *FileStore) WriteSnapshot(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), s.path(name))
}

func (s *FileStore) ReadSnapshot(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(s.path(name))
}

func (s *FileStore) ListSnapshots(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		fn := e.Name()
		if e.IsDir() || !strings.HasPrefix(fn, FilePrefix) || !strings.HasSuffix(fn, fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(fn, FilePrefix), fileExt))
	}
	return names, nil
}

func (s *FileStore) DeleteSnapshot(_ context.Context, name string) error {
	return os.Remove(s.path(name))
}
