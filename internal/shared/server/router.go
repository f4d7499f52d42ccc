package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"usermanager/internal/shared/config"
	"usermanager/internal/shared/metrics"
	"usermanager/internal/shared/server/middleware"
	"usermanager/internal/shared/server/respond"
)

// NewEngine constructs a Gin engine with the shared middleware stack plus health and
// metrics endpoints. Callers register their own routes on the result.
func NewEngine(cfg config.Config) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/api/v1/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
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
