// Package store keeps client-side caches of server-owned entities, one store
// per entity family. Every mutator follows the same cycle: apply the change
// locally, send it to the API, then either replace the entity with the
// server's response or roll the local change back.
package store

import (
	"context"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/care-sync/pkg/kvstore"
	"github.com/jwalitptl/care-sync/pkg/logger"
	"github.com/jwalitptl/care-sync/pkg/metrics"
)

// Transport is the REST surface the stores depend on. *client.Client
// satisfies it.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Patch(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string) error
}

// Options carries the ambient dependencies shared by all stores.
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	// Cache persists data that must survive restarts (lab reports).
	Cache kvstore.Store
	// Now is the clock used for derived status; defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Cache == nil {
		o.Cache = kvstore.NewMemoryStore()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type base struct {
	name    string
	t       Transport
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func newBase(name string, t Transport, opts Options) base {
	opts = opts.withDefaults()
	return base{
		name:    name,
		t:       t,
		log:     opts.Logger.WithFields(map[string]interface{}{"store": name}),
		metrics: opts.Metrics,
		now:     opts.Now,
	}
}

func (b base) rolledBack(err error, msg string, fields ...interface{}) {
	if b.metrics != nil {
		b.metrics.StoreRollbacks.WithLabelValues(b.name).Inc()
	}
	b.log.Error(err, msg, fields...)
}

// collection is a mutex-guarded ordered list of entities keyed by ID.
type collection[T any] struct {
	mu    sync.RWMutex
	items []T
	idOf  func(T) string
}

func newCollection[T any](idOf func(T) string) *collection[T] {
	return &collection[T]{idOf: idOf}
}

func (c *collection[T]) all() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[T]) replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// upsert replaces the entity with the same ID or appends it.
func (c *collection[T]) upsert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.idOf(item)
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// remove deletes the entity and returns it with its former index.
func (c *collection[T]) remove(id string) (T, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if c.idOf(it) == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return it, i, true
		}
	}
	var zero T
	return zero, -1, false
}

// insertAt puts item back at index, used to undo remove.
func (c *collection[T]) insertAt(item T, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index > len(c.items) {
		index = len(c.items)
	}
	c.items = append(c.items[:index:index], append([]T{item}, c.items[index:]...)...)
}

// mutate applies fn to the cached entity and returns its previous value.
func (c *collection[T]) mutate(id string, fn func(*T)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			prev := c.items[i]
			fn(&c.items[i])
			return prev, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) count(match func(T) bool) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, it := range c.items {
		if match(it) {
			n++
		}
	}
	return n
}

func (c *collection[T]) filter(match func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, it := range c.items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}

const dateLayout = "2006-01-02"

// parseDate accepts date-only and RFC 3339 wire dates. Anything else,
// including the empty string, is the zero time.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// percent returns round(100*part/total), 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func escape(id string) string {
	return url.PathEscape(id)
}
