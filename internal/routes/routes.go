package routes

import (
	"github.com/loki1512/MS-Fitness-Gym/internal/config"
	"github.com/loki1512/MS-Fitness-Gym/internal/handlers"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/middleware"

	_ "github.com/loki1512/MS-Fitness-Gym/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes mounts the API under /api plus the operational endpoints.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	cfg *config.Config,
) {
	api := ginRouter.Group("/api")
	for _, h := range appHandlers.All() {
		h.RegisterRoutes(api)
	}

	if cfg.Metrics.Enabled || cfg.Metrics.Username != "" {
		ginRouter.GET("/metrics",
			middleware.MetricsAuth(cfg.Metrics.Username, cfg.Metrics.Password),
			gin.WrapH(promhttp.Handler()),
		)
		logger.Info("Metrics route /metrics registered", "basic_auth", cfg.Metrics.Username != "")
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
