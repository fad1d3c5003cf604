package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-sync/internal/handler/prometheus"
	"github.com/jwalitptl/care-sync/internal/middleware"
)

const (
	apiPrefix   = "/api/v1"
	metricsPath = "/metrics"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodySize    int64
	// RateLimit is nil when limiting is disabled.
	RateLimit      *middleware.RateLimiterConfig
	AllowedOrigins []string
	Security       middleware.SecurityConfig
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	metrics   *prometheus.Handler
	healthH   Handler
	authH     Handler
	protected []Handler
}

// NewRouter installs the global middleware chain. Routes are mounted by
// Setup.
func NewRouter(
	config RouterConfig,
	auth *middleware.AuthMiddleware,
	metrics *prometheus.Handler,
	healthH Handler,
	authH Handler,
	protected ...Handler,
) *Router {
	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		metrics:   metrics,
		healthH:   healthH,
		authH:     authH,
		protected: protected,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.SecurityHeaders(config.Security),
		cors.New(corsConfig(config.AllowedOrigins)),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{apiPrefix + metricsPath})),
	)

	maxBody := config.MaxBodySize
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodySize
	}
	engine.Use(middleware.SizeLimit(maxBody))

	if config.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(config.RequestTimeout))
	}
	if config.RateLimit != nil {
		engine.Use(middleware.NewRateLimiter(*config.RateLimit).RateLimit())
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderPatient, middleware.HeaderXRequestID},
		ExposeHeaders: []string{middleware.HeaderXRequestID, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func (r *Router) Setup() {
	api := r.engine.Group(apiPrefix)

	// Public routes
	r.healthH.RegisterRoutes(api)
	api.GET(metricsPath, r.metrics.Handler())
	r.authH.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	for _, h := range r.protected {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
