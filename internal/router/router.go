package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	Mode        string
	Logger      zerolog.Logger
	Registerer  prometheus.Registerer
	Namespace   string
	CORSOrigins []string
	// RateLimit nil disables rate limiting.
	RateLimit *middleware.RateLimiterConfig
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(auth *middleware.AuthMiddleware, config RouterConfig) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		metrics: initRouterMetrics(config.Registerer, config.Namespace),
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(config.Logger),
		middleware.Recovery(config.Logger),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(),
		middleware.CORS(config.CORSOrigins),
	)
	if config.RateLimit != nil {
		engine.Use(middleware.NewRateLimiter(*config.RateLimit).RateLimit())
	}
	return r
}

// Setup mounts everything under /api/v1. Operational and public handlers
// skip authentication.
func (r *Router) Setup(ops Handler, public []Handler, protected []Handler) {
	api := r.engine.Group("/api/v1")

	ops.RegisterRoutes(api)
	for _, h := range public {
		h.RegisterRoutes(api)
	}

	secured := api.Group("")
	secured.Use(r.auth.Authenticate())
	for _, h := range protected {
		h.RegisterRoutes(secured)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(reg prometheus.Registerer, namespace string) *routerMetrics {
	factory := promauto.With(reg)
	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "errors_total",
				Help:      "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// route templates keep label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch {
		case code >= 500:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case code >= 400:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
