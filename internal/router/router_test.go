package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/care-sync/internal/handler/health"
	"github.com/jwalitptl/care-sync/internal/handler/prometheus"
	"github.com/jwalitptl/care-sync/internal/middleware"
	"github.com/jwalitptl/care-sync/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingHandler struct{}

func (pingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		caller, _ := middleware.CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"role": caller.Role})
	})
}

type publicHandler struct{}

func (publicHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/token", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func newRouter(config RouterConfig) *gin.Engine {
	jwt := auth.NewJWTManager("secret", "care-sync", time.Hour)
	r := NewRouter(
		config,
		middleware.NewAuthMiddleware(jwt, true),
		prometheus.New(),
		health.NewHandler(nil),
		publicHandler{},
		pingHandler{},
	)
	r.Setup()
	return r.Engine()
}

func serve(e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	e := newRouter(RouterConfig{Security: middleware.DefaultSecurityConfig()})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = serve(e, httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(middleware.HeaderPatient, uuid.NewString())
	w = serve(e, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"patient"}`, w.Body.String())

	w = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `path="/api/v1/health/live"`)
}

func TestCORSPreflight(t *testing.T) {
	e := newRouter(RouterConfig{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := serve(e, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = serve(e, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimit(t *testing.T) {
	e := newRouter(RouterConfig{RateLimit: &middleware.RateLimiterConfig{Rate: rate.Limit(0.001), Burst: 1}})

	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)).Code)
}

func TestGzip(t *testing.T) {
	e := newRouter(RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := serve(e, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}
