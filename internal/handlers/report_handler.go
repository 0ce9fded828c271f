package handlers

import (
	"net/http"

	"github.com/loki1512/MS-Fitness-Gym/internal/middleware"
	"github.com/loki1512/MS-Fitness-Gym/internal/services"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	*BaseHandler
	reportService services.ReportService
}

func NewReportHandler(base *BaseHandler, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   base,
		reportService: reportService,
	}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := rg.Group("/admin")
	staff.Use(middleware.AuthMiddleware(), middleware.StaffOnly())
	{
		staff.GET("/transactions/all", h.AllTransactions)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.GET("/transactions", h.Transactions)
		admin.GET("/projections", h.Projections)
	}
}

// AllTransactions godoc
// @Summary Approved payments
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "YYYY-MM-DD, inclusive"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Success 200 {object} dto.TransactionListResponse
// @Router /admin/transactions/all [get]
func (h *ReportHandler) AllTransactions(c *gin.Context) {
	var filter dto.DateRangeFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	resp, err := h.reportService.AllTransactions(c.Request.Context(), h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Transactions godoc
// @Summary Payments in a reporting window, with revenue
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param filter query string false "this_month, last_month, custom or last_30_days (default)"
// @Param start_date query string false "YYYY-MM-DD, with filter=custom"
// @Param end_date query string false "YYYY-MM-DD, with filter=custom"
// @Success 200 {object} dto.TransactionListResponse
// @Router /admin/transactions [get]
func (h *ReportHandler) Transactions(c *gin.Context) {
	var filter dto.TransactionFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	resp, err := h.reportService.Transactions(c.Request.Context(), h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Projections godoc
// @Summary Revenue projections
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProjectionResponse
// @Router /admin/projections [get]
func (h *ReportHandler) Projections(c *gin.Context) {
	resp, err := h.reportService.Projections(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
