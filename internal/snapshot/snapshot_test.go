package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pavelanni/drill/internal/checkpoint"
)

func newMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
}

func newClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func backends(t *testing.T) map[string]checkpoint.Storage {
	t.Helper()
	return map[string]checkpoint.Storage{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "words")),
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(newClient(t, newMiniredis(t)), "", 0),
	}
}

func TestStorageContract(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			names, err := st.ListSnapshots(ctx)
			if err != nil {
				t.Fatalf("ListSnapshots on empty store: %v", err)
			}
			if len(names) != 0 {
				t.Fatalf("expected no snapshots, got %v", names)
			}

			if _, err := st.ReadSnapshot(ctx, "missing"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("ReadSnapshot missing: expected fs.ErrNotExist, got %v", err)
			}
			if err := st.DeleteSnapshot(ctx, "missing"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("DeleteSnapshot missing: expected fs.ErrNotExist, got %v", err)
			}

			if err := st.WriteSnapshot(ctx, "lesson-1", []byte(`{"index":1}`)); err != nil {
				t.Fatalf("WriteSnapshot: %v", err)
			}
			if err := st.WriteSnapshot(ctx, "lesson-2", []byte(`{"index":2}`)); err != nil {
				t.Fatalf("WriteSnapshot: %v", err)
			}
			// Overwrite keeps a single entry.
			if err := st.WriteSnapshot(ctx, "lesson-1", []byte(`{"index":3}`)); err != nil {
				t.Fatalf("WriteSnapshot overwrite: %v", err)
			}

			data, err := st.ReadSnapshot(ctx, "lesson-1")
			if err != nil {
				t.Fatalf("ReadSnapshot: %v", err)
			}
			if string(data) != `{"index":3}` {
				t.Errorf("unexpected data %q", data)
			}

			names, err = st.ListSnapshots(ctx)
			if err != nil {
				t.Fatalf("ListSnapshots: %v", err)
			}
			slices.Sort(names)
			if !slices.Equal(names, []string{"lesson-1", "lesson-2"}) {
				t.Errorf("expected [lesson-1 lesson-2], got %v", names)
			}

			if err := st.DeleteSnapshot(ctx, "lesson-1"); err != nil {
				t.Fatalf("DeleteSnapshot: %v", err)
			}
			if _, err := st.ReadSnapshot(ctx, "lesson-1"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("expected deleted snapshot to be gone, got %v", err)
			}
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	st := NewFileStore(dir)
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(dir, "animals.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := st.WriteSnapshot(ctx, "my-quiz", []byte(`{}`)); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "xx-inprogress-my-quiz.json")); err != nil {
		t.Errorf("expected snapshot file: %v", err)
	}
	names, err := st.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if !slices.Equal(names, []string{"my-quiz"}) {
		t.Errorf("quiz files must not be listed as snapshots, got %v", names)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestFileStoreMissingDir(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "nope"))
	names, err := st.ListSnapshots(context.Background())
	if err != nil || len(names) != 0 {
		t.Errorf("expected empty list for missing dir, got %v, %v", names, err)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	mr := newMiniredis(t)
	st := NewRedisStore(newClient(t, mr), "test:", time.Hour)
	ctx := context.Background()

	if err := st.WriteSnapshot(ctx, "later", []byte(`{}`)); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if !mr.Exists("test:later") {
		t.Fatal("expected key test:later")
	}
	if ttl := mr.TTL("test:later"); ttl != time.Hour {
		t.Errorf("expected TTL of 1h, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := st.ReadSnapshot(ctx, "later"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected expired snapshot, got %v", err)
	}
}

func TestRedisStoreIgnoresOtherKeys(t *testing.T) {
	mr := newMiniredis(t)
	st := NewRedisStore(newClient(t, mr), "", 0)
	ctx := context.Background()

	if err := mr.Set("unrelated", "x"); err != nil {
		t.Fatal(err)
	}
	if err := st.WriteSnapshot(ctx, "a", []byte(`{}`)); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	names, err := st.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if !slices.Equal(names, []string{"a"}) {
		t.Errorf("expected [a], got %v", names)
	}
	if mr.TTL(DefaultKeyPrefix+"a") != 0 {
		t.Error("expected no TTL when ttl is zero")
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("abc")
	if err := st.WriteSnapshot(ctx, "x", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'z'
	got, _ := st.ReadSnapshot(ctx, "x")
	if string(got) != "abc" {
		t.Errorf("store shares memory with caller: %q", got)
	}
}
