package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/care-sync/pkg/errors"
	"github.com/jwalitptl/care-sync/pkg/metrics"
)

func newTestClient(t *testing.T, h http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL + "/api/v1"
	c, err := New(cfg, WithMetrics(metrics.NewMetrics("test", "client", prometheus.NewRegistry())))
	require.NoError(t, err)
	return c
}

func TestGetSendsHeadersAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/appointments", r.URL.Path)
		assert.Equal(t, "doc-1", r.URL.Query().Get("doctorId"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "pat-1", r.Header.Get(PatientHeader))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "a1"})
	}, Config{Token: "tok", PatientID: "pat-1"})

	var out struct {
		ID string `json:"id"`
	}
	err := c.Get(context.Background(), "/appointments", url.Values{"doctorId": {"doc-1"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "a1", out.ID)
}

func TestPatchSendsJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])
		w.WriteHeader(http.StatusNoContent)
	}, Config{})

	err := c.Patch(context.Background(), "appointments/a1", map[string]string{"status": "completed"}, nil)
	assert.NoError(t, err)
}

func TestErrorStatusBecomesAppError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"diet plan not found"}`))
	}, Config{})

	err := c.Get(context.Background(), "/diet-plans/x", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "diet plan not found")
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, Config{BreakerFailures: 2, BreakerTimeout: time.Minute})

	ctx := context.Background()
	_ = c.Get(ctx, "/fitness", nil, nil)
	_ = c.Get(ctx, "/fitness", nil, nil)
	err := c.Get(ctx, "/fitness", nil, nil)

	assert.True(t, errors.Is(err, errors.ErrUnavailable))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}, Config{BreakerFailures: 1, BreakerTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		err := c.Get(context.Background(), "/fitness", nil, nil)
		assert.True(t, errors.Is(err, errors.ErrBadRequest))
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CARESYNC_BASE_URL", "https://care.example.com/api/v1")
	t.Setenv("CARESYNC_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://care.example.com/api/v1", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.RateBurst)
}

func TestEscapedPathSegmentsAreSentOnce(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/appointments/a%2Fb%25c", r.RequestURI)
		_, _ = w.Write([]byte(`{}`))
	}, Config{})

	err := c.Get(context.Background(), "/appointments/"+url.PathEscape("a/b%c"), nil, nil)
	require.NoError(t, err)
}
