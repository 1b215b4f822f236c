package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/medagenda/booking-api/internal/handler"
	"github.com/medagenda/booking-api/internal/middleware"
	"github.com/medagenda/booking-api/pkg/metrics"
)

// Handler registers a route slice under a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimit rate.Limit
	RateBurst int
}

type Router struct {
	engine *gin.Engine
}

// NewRouter assembles the route tree: a rate-limited public group for the
// patient-facing endpoints and a staff group for the agenda.
func NewRouter(
	cfg Config,
	zl zerolog.Logger,
	m *metrics.Metrics,
	bookingH Handler,
	appointmentH Handler,
	availabilityH Handler,
	patientH Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(zl),
		metricsMiddleware(m),
	)

	engine.GET("/health", handler.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")

	public := api.Group("/public")
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  cfg.RateLimit,
		Burst: cfg.RateBurst,
	})
	public.Use(limiter.RateLimit())
	bookingH.RegisterRoutes(public)

	staff := api.Group("/staff")
	appointmentH.RegisterRoutes(staff)
	availabilityH.RegisterRoutes(staff)
	patientH.RegisterRoutes(staff)

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
