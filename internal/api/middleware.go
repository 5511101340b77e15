// internal/api/middleware.go
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/junglecut/storyarc/internal/logging"
	"github.com/junglecut/storyarc/internal/utils"
)

// RequestIDMiddleware tags every request with an id that flows into the
// response envelope and logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// CORSMiddleware allows the browser UI to call the API from another origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs each request with latency and status, and feeds the
// in-process metrics collector.
func LoggingMiddleware(logger *logging.Logger, metrics *utils.EngineMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
		if metrics != nil {
			metrics.RecordAPIRequest(path, c.Request.Method, status, latency)
		}
	}
}

// rateLimiter is a fixed-window per-client limiter. It protects the chat and
// suggestion endpoints, which fan out to paid AI providers.
type rateLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	limit    int
	counts   map[string]int
	windowAt time.Time
}

// RateLimitMiddleware allows limit requests per client IP per window.
func RateLimitMiddleware(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{
		window:   window,
		limit:    limit,
		counts:   make(map[string]int),
		windowAt: time.Now(),
	}
	helper := NewResponseHelper()

	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			helper.Error(c, http.StatusTooManyRequests, ErrCodeRateLimit, "too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.windowAt) > rl.window {
		rl.counts = make(map[string]int)
		rl.windowAt = now
	}

	rl.counts[key]++
	return rl.counts[key] <= rl.limit
}
