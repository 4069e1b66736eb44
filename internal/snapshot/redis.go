package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pavelanni/drill/internal/checkpoint"
)

// DefaultKeyPrefix namespaces snapshot keys.
const DefaultKeyPrefix = "drill:snapshot:"

var _ checkpoint.Storage = (*RedisStore)(nil)

// RedisStore keeps each snapshot as a string key. A positive ttl expires
// snapshots that were never resumed.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStore) WriteSnapshot(ctx context.Context, name string, data []byte) error {
	return s.client.Set(ctx, s.key(name), data, s.ttl).Err()
}

func (s *RedisStore) ReadSnapshot(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	return data, err
}

func (s *RedisStore) ListSnapshots(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	return names, iter.Err()
}

func (s *RedisStore) DeleteSnapshot(ctx context.Context, name string) error {
	n, err := s.client.Del(ctx, s.key(name)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	return nil
}
