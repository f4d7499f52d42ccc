package sandbox

import (
	"github.com/gin-gonic/gin"

	"usermanager/internal/shared/config"
	"usermanager/internal/shared/server"
	"usermanager/internal/shared/server/middleware"
)

// NewRouter serves the directory API at the root, the way the public demo API does.
func NewRouter(cfg config.Config, svc *Service) *gin.Engine {
	r := server.NewEngine(cfg)
	if cfg.SandboxRateLimit > 0 {
		burst := int(cfg.SandboxRateLimit * 2)
		if burst < 1 {
			burst = 1
		}
		r.Use(middleware.RateLimit(middleware.RateLimitRule{Rate: cfg.SandboxRateLimit, Burst: burst}, nil))
	}
	NewHandler(svc).RegisterRoutes(r)
	return r
}
