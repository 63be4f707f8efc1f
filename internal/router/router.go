package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

// Handler registers a group of routes on the API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimit      middleware.RateLimiterConfig
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		RateLimit:      middleware.DefaultRateLimiterConfig(),
		CORS:           middleware.DefaultCORSConfig(),
		RequestTimeout: 30 * time.Second,
	}
}

type Router struct {
	engine   *gin.Engine
	config   Config
	health   *handler.Handler
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	handlers []Handler
}

func New(
	config Config,
	logger zerolog.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	health *handler.Handler,
	handlers ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:   engine,
		config:   config,
		health:   health,
		metrics:  m,
		gatherer: gatherer,
		handlers: handlers,
	}

	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		r.metricsMiddleware(),
		middleware.Timeout(config.RequestTimeout),
		middleware.CORS(config.CORS),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.setupHealthCheck()

	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	for _, h := range r.handlers {
		h.RegisterRoutes(api)
	}
}

func (r *Router) setupHealthCheck() {
	health := r.engine.Group("/healthz")
	{
		health.GET("/live", r.health.LivenessCheck)
		health.GET("/ready", r.health.ReadinessCheck)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Route template, not raw path, to bound label cardinality.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.RequestTotal.WithLabelValues(method, path, status).Inc()
		r.metrics.RequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= 400 {
			r.metrics.ErrorTotal.WithLabelValues(method, path, status).Inc()
		}
	}
}
