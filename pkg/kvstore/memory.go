package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries in process and can snapshot them to a file so
// they survive restarts.
type MemoryStore struct {
	cache *cache.Cache
	now   func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used for TTL checks.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		cache: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, name string, dst interface{}) (bool, error) {
	raw, ok := s.cache.Get(name)
	if !ok {
		return false, nil
	}

	e, err := decode(raw.([]byte))
	if err != nil {
		s.cache.Delete(name)
		return false, err
	}
	if e.expired(s.now()) {
		s.cache.Delete(name)
		return false, nil
	}

	if err := json.Unmarshal(e.Data, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, name string, value interface{}, ttl time.Duration) error {
	raw, err := encode(value, ttl, s.now())
	if err != nil {
		return err
	}
	s.cache.Set(name, raw, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.cache.Delete(name)
	return nil
}

// SaveFile writes every entry to path as JSON.
func (s *MemoryStore) SaveFile(path string) error {
	snapshot := make(map[string]json.RawMessage)
	for name, item := range s.cache.Items() {
		snapshot[name] = json.RawMessage(item.Object.([]byte))
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadFile restores entries written by SaveFile. A missing file is not an
// error. Expired entries are kept and dropped on their next read.
func (s *MemoryStore) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	for name, raw := range snapshot {
		s.cache.Set(name, []byte(raw), cache.NoExpiration)
	}
	return nil
}
