package kvstore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares entries between processes through redis. Entries also
// get a redis expiry so abandoned keys do not accumulate.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStore) Get(ctx context.Context, name string, dst interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}

	e, err := decode(raw)
	if err != nil {
		return false, err
	}
	if e.expired(s.now()) {
		s.client.Del(ctx, s.key(name))
		return false, nil
	}

	if err := json.Unmarshal(e.Data, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, name string, value interface{}, ttl time.Duration) error {
	raw, err := encode(value, ttl, s.now())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(name), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.key(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
