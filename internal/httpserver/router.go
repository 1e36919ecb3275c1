package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"babylog/internal/analytics"
	"babylog/internal/cache"
	"babylog/internal/logging"
	"babylog/internal/metrics"
	"babylog/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultMaxWindow = 366 * 24 * time.Hour
	defaultLookback  = 7
)

type Dependencies struct {
	Repository store.Repository
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	// Location sets calendar-day boundaries for analytics. Nil means UTC.
	Location        *time.Location
	SummaryCacheTTL time.Duration
	MaxWindow       time.Duration
	Now             func() time.Time
}

func NewRouter(environment string, deps Dependencies) (*gin.Engine, error) {
	if deps.Repository == nil {
		return nil, errors.New("event repository is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.MaxWindow <= 0 {
		deps.MaxWindow = defaultMaxWindow
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	gin.EnableJsonDecoderDisallowUnknownFields()
	gin.SetMode(ginMode(environment))

	router := gin.New()
	router.Use(gin.Recovery(), logging.AccessLog(deps.Logger), instrument(deps.Metrics))
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	windows := windowParser{loc: deps.Location, maxWindow: deps.MaxWindow, now: deps.Now}

	eventsHandler := newEventsHandler(deps.Repository, deps.Metrics, deps.Logger, windows)
	analyticsHandler := newAnalyticsHandler(
		deps.Repository,
		cache.New[analytics.Summary](deps.SummaryCacheTTL, deps.Metrics),
		deps.Metrics,
		deps.Logger,
		windows,
	)

	v1 := router.Group("/v1")
	v1.POST("/events", eventsHandler.create)
	v1.GET("/events", eventsHandler.list)
	v1.GET("/analytics", analyticsHandler.summary)

	return router, nil
}

func instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Writer.Status())
	}
}

func ginMode(environment string) string {
	switch environment {
	case "development":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
