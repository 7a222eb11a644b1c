// Package middleware holds the gin middleware shared by all routes.
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/movielog/movielog/internal/logger"
)

// RequestLogger logs each request through the structured logger. Health
// probes and static assets are skipped to keep the log readable.
func RequestLogger() gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api/health" || strings.HasPrefix(path, "/static/") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		log.Debug("request",
			"method", c.Request.Method,
			"path", path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

// CORS allows cross-origin API access for development clients.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
