package api

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/livechat-history-viewer/internal/config"
	"github.com/livechat-history-viewer/internal/render"
	"github.com/livechat-history-viewer/internal/service"
	"github.com/rs/zerolog"
)

//go:embed web
var webFS embed.FS

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Viewer page and its script
	router.SetHTMLTemplate(template.Must(template.ParseFS(webFS, "web/index.html")))
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	router.StaticFS("/static", http.FS(static))
	router.GET("/", indexPage)

	// Handlers
	sessionHandler := NewSessionHandler(services, log)
	feedHandler := NewFeedHandler(services.Document, cfg.Render, log)

	// Health check
	router.GET("/health", healthCheck(services))
	router.GET("/metrics", gin.WrapH(services.Metrics.Handler()))

	// API v1
	v1 := router.Group("/v1")
	{
		// Bridge endpoints
		v1.POST("/requests", sessionHandler.RequestSessions)
		v1.POST("/sessions", sessionHandler.DeliverSessions)
		v1.GET("/passes/last", sessionHandler.GetLastPass)

		// Live feed endpoints
		feed := v1.Group("/feed")
		{
			feed.GET("", feedHandler.GetSnapshot)
			feed.GET("/events", feedHandler.StreamEvents)
		}
	}

	return router
}

// indexPage serves the viewer
func indexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Style": template.CSS(render.Stylesheet),
	})
}

// healthCheck returns the health status
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"timestamp":   time.Now().Format(time.RFC3339),
			"service":     "livechat-history-viewer",
			"subscribers": services.Document.Subscribers(),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
