package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-roaster/internal/shared/telemetry"
)

// Context keys handlers set so the request log can carry them.
const (
	SessionIDKey       = "sessionId"
	StageTransitionKey = "stageTransition"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		sessionID, _ := c.Get(SessionIDKey)
		stageTransition := ""
		if raw, ok := c.Get(StageTransitionKey); ok {
			if s, ok := raw.(string); ok {
				stageTransition = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":       reqID,
			"method":           c.Request.Method,
			"path":             c.Request.URL.Path,
			"status":           status,
			"stage_transition": stageTransition,
			"duration_ms":      float64(latency.Microseconds()) / 1000.0,
			"client_id":        ClientIDFromContext(c),
			"session_id":       sessionID,
			"client_ip":        c.ClientIP(),
			"user_agent":       c.Request.UserAgent(),
		})
	}
}
