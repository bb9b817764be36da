package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/eventdash/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.ReportHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	api.GET("/events", handler.Events)
	api.GET("/filters", handler.Filters)
	api.POST("/refresh", handler.Refresh)

	reports := api.Group("/reports")
	reports.GET("/monthly", handler.Monthly)
	reports.GET("/yearly", handler.Yearly)
	reports.GET("/guests", handler.Guests)
	reports.GET("/counts", handler.Counts)
	reports.GET("/stats", handler.Stats)
	reports.GET("/tickets", handler.Tickets)
	reports.GET("/distribution", handler.Distribution)
	reports.GET("/details", handler.Details)
	reports.GET("/panel", handler.Panel)
	reports.GET("/archive", handler.Archive)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
