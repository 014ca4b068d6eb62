package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/bodycontrol/someip-gateway/internal/client"
	"github.com/bodycontrol/someip-gateway/internal/metrics"
)

// NewRouter builds the gateway's gin.Engine, registers every REST and SSE
// route from the body domain API, and wires the client engine's
// notification callbacks to the broadcaster. startedAt feeds GET
// /api/health's uptime field.
func NewRouter(cl *client.Client, bus *Broadcaster, startedAt time.Time) *gin.Engine {
	g := New(cl, bus)

	cl.RegisterDoorClient(g.OnDoorLockChanged, g.OnDoorStateChanged)
	cl.RegisterWindowClient(g.OnWindowPositionChanged)
	cl.RegisterLightClient(g.OnLightStateChanged)
	cl.RegisterSeatClient(g.OnSeatPositionChanged, g.OnSeatMemorySaveConfirm)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), corsMiddleware(), rateLimitMiddleware(), metricsMiddleware())

	api := engine.Group("/api")
	{
		api.POST("/door/lock", g.PostDoorLock)
		api.GET("/door/:id/status", g.GetDoorStatus)

		api.POST("/window/position", g.PostWindowPosition)
		api.POST("/window/control", g.PostWindowControl)
		api.GET("/window/:id/position", g.GetWindowPosition)

		api.POST("/light/headlight", g.PostHeadlight)
		api.POST("/light/indicator", g.PostIndicator)
		api.POST("/light/position", g.PostPositionLight)

		api.POST("/seat/adjust", g.PostSeatAdjust)
		api.POST("/seat/memory/save", g.PostSeatMemorySave)
		api.POST("/seat/memory/recall", g.PostSeatMemoryRecall)

		api.GET("/health", g.GetHealth(startedAt))
		api.GET("/info", g.GetInfo)
		api.GET("/events", g.GetEvents)
	}
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

// RunHeartbeat keeps the SSE broadcaster's keepalive frames flowing until
// ctx is cancelled. Call it from an errgroup alongside the HTTP server.
func RunHeartbeat(ctx context.Context, group *errgroup.Group, bus *Broadcaster) {
	group.Go(func() error {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				bus.Heartbeat()
			}
		}
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("handled gateway request")
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		statusClass := statusClassOf(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(route, statusClass).Inc()
	}
}

func statusClassOf(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
