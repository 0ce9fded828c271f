package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/services"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

type SystemHandler struct {
	*BaseHandler
	reportService services.ReportService
}

func NewSystemHandler(base *BaseHandler, reportService services.ReportService) *SystemHandler {
	return &SystemHandler{
		BaseHandler:   base,
		reportService: reportService,
	}
}

func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/stats", h.Stats)
}

// Health godoc
// @Summary Liveness and database reachability
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:    "healthy",
		Database:  "up",
		Timestamp: time.Now().UTC(),
	}

	if err := h.pingDB(c); err != nil {
		logger.CtxWithError(c.Request.Context(), "health check: database unreachable", err)
		resp.Status = "unhealthy"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SystemHandler) pingDB(c *gin.Context) error {
	sqlDB, err := h.GetDB(c).DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Stats godoc
// @Summary Headline counts
// @Tags system
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Router /stats [get]
func (h *SystemHandler) Stats(c *gin.Context) {
	resp, err := h.reportService.Stats(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
