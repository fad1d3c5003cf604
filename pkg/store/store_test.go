package store

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/pkg/metrics"
)

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]interface{}
}

// fakeTransport answers through respond. A string response is treated as a
// raw JSON document; anything else is marshalled first.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []call
	respond func(c call) (interface{}, error)
}

var _ Transport = (*fakeTransport)(nil)

func (f *fakeTransport) do(method, path string, q url.Values, body, out interface{}) error {
	c := call{Method: method, Path: path, Query: q}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		_ = json.Unmarshal(raw, &c.Body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, c)
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return nil
	}
	resp, err := respond(c)
	if err != nil {
		return err
	}
	if out == nil || resp == nil {
		return nil
	}
	raw, ok := resp.(string)
	if !ok {
		b, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		raw = string(b)
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeTransport) Get(_ context.Context, path string, q url.Values, out interface{}) error {
	return f.do("GET", path, q, nil, out)
}

func (f *fakeTransport) Post(_ context.Context, path string, body, out interface{}) error {
	return f.do("POST", path, nil, body, out)
}

func (f *fakeTransport) Patch(_ context.Context, path string, body, out interface{}) error {
	return f.do("PATCH", path, nil, body, out)
}

func (f *fakeTransport) Put(_ context.Context, path string, body, out interface{}) error {
	return f.do("PUT", path, nil, body, out)
}

func (f *fakeTransport) Delete(_ context.Context, path string) error {
	return f.do("DELETE", path, nil, nil, nil)
}

func (f *fakeTransport) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeTransport) LastCall() call {
	calls := f.Calls()
	if len(calls) == 0 {
		return call{}
	}
	return calls[len(calls)-1]
}

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func testOptions(t *testing.T) (Options, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics("test", "store", prometheus.NewRegistry())
	return Options{Metrics: m, Now: func() time.Time { return testNow }}, m
}

func rollbacks(m *metrics.Metrics, store string) float64 {
	return testutil.ToFloat64(m.StoreRollbacks.WithLabelValues(store))
}

func TestCollectionRemoveAndInsertAt(t *testing.T) {
	c := newCollection(func(s string) string { return s })
	c.replace([]string{"a", "b", "c"})

	removed, idx, ok := c.remove("b")
	require.True(t, ok)
	assert.Equal(t, "b", removed)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"a", "c"}, c.all())

	c.insertAt(removed, idx)
	assert.Equal(t, []string{"a", "b", "c"}, c.all())

	_, _, ok = c.remove("zzz")
	assert.False(t, ok)
}

func TestCollectionUpsertAndMutate(t *testing.T) {
	type item struct {
		ID string
		N  int
	}
	c := newCollection(func(i item) string { return i.ID })
	c.upsert(item{ID: "1", N: 1})
	c.upsert(item{ID: "2", N: 2})
	c.upsert(item{ID: "1", N: 10})

	assert.Equal(t, []item{{"1", 10}, {"2", 2}}, c.all())

	prev, ok := c.mutate("2", func(i *item) { i.N = 20 })
	require.True(t, ok)
	assert.Equal(t, 2, prev.N)
	got, _ := c.get("2")
	assert.Equal(t, 20, got.N)

	_, ok = c.mutate("3", func(i *item) { i.N = 30 })
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	c := newCollection(func(s string) string { return s })
	c.replace([]string{"a"})

	out := c.all()
	out[0] = "mutated"
	assert.Equal(t, []string{"a"}, c.all())
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), parseDate("2024-06-01"))
	assert.Equal(t, time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), parseDate("2024-06-01T09:30:00Z"))
	assert.True(t, parseDate("").IsZero())
	assert.True(t, parseDate("yesterday").IsZero())
	assert.Equal(t, "", formatDate(time.Time{}))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(0, 0))
	assert.Equal(t, 67, percent(2, 3))
	assert.Equal(t, 100, percent(4, 4))
}
