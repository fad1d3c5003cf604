// Package kvstore is a name-keyed key/value cache whose entries carry their
// own save time. Expiry is checked when an entry is read, not by a sweeper.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DayTTL is the lifetime used for cached lab reports and similar fallbacks.
const DayTTL = 24 * time.Hour

// Store persists JSON-encodable values under a name.
type Store interface {
	// Get decodes the value saved under name into dst. It reports false when
	// the name is unknown or the entry outlived its TTL.
	Get(ctx context.Context, name string, dst interface{}) (bool, error)
	// Set saves value under name. A ttl of zero never expires.
	Set(ctx context.Context, name string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, name string) error
}

type entry struct {
	SavedAt time.Time       `json:"saved_at"`
	TTL     time.Duration   `json:"ttl"`
	Data    json.RawMessage `json:"data"`
}

func (e entry) expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.SavedAt) > e.TTL
}

func encode(value interface{}, ttl time.Duration, now time.Time) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return json.Marshal(entry{SavedAt: now, TTL: ttl, Data: data})
}

func decode(raw []byte) (entry, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{}, fmt.Errorf("failed to decode entry: %w", err)
	}
	return e, nil
}
