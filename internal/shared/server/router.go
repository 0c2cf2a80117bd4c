package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-roaster/internal/services/health"
	"resume-roaster/internal/sessions"
	"resume-roaster/internal/shared/config"
	"resume-roaster/internal/shared/metrics"
	"resume-roaster/internal/shared/server/middleware"
	"resume-roaster/internal/shared/server/respond"
)

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/api/v1/metrics"
	rolesPath   = "/api/v1/roles"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	Health         *health.Service
	SessionHandler *sessions.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.ClientIdentity(healthPath, metricsPath, rolesPath),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		payload, ok := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, payload)
	})
	api.GET("/metrics", metrics.Handler())

	if deps.SessionHandler != nil {
		deps.SessionHandler.RegisterRoutes(api, analyzeLimit(deps.Config))
	}
	return r
}

func analyzeLimit(cfg config.Config) gin.HandlerFunc {
	if cfg.AnalyzeRatePerMin <= 0 || cfg.AnalyzeBurst <= 0 {
		return nil
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		Name: "analyze",
		Rule: middleware.PerMinute(cfg.AnalyzeRatePerMin, cfg.AnalyzeBurst),
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
