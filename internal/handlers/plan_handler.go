package handlers

import (
	"net/http"

	"github.com/loki1512/MS-Fitness-Gym/internal/middleware"
	"github.com/loki1512/MS-Fitness-Gym/internal/services"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	*BaseHandler
	planService services.PlanService
}

func NewPlanHandler(base *BaseHandler, planService services.PlanService) *PlanHandler {
	return &PlanHandler{
		BaseHandler: base,
		planService: planService,
	}
}

func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/plans", h.ListActivePlans)

	admin := rg.Group("/admin/plans")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.GET("", h.ListAllPlans)
		admin.POST("", h.CreatePlan)
		admin.PUT("/:id", h.UpdatePlan)
		admin.DELETE("/:id", h.DeletePlan)
	}
}

// ListActivePlans godoc
// @Summary Active plans
// @Tags plans
// @Produce json
// @Success 200 {array} dto.PlanResponse
// @Router /plans [get]
func (h *PlanHandler) ListActivePlans(c *gin.Context) {
	h.listPlans(c, false)
}

// ListAllPlans godoc
// @Summary All plans, including deactivated ones
// @Tags admin-plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PlanResponse
// @Router /admin/plans [get]
func (h *PlanHandler) ListAllPlans(c *gin.Context) {
	h.listPlans(c, true)
}

func (h *PlanHandler) listPlans(c *gin.Context, includeInactive bool) {
	plans, err := h.planService.ListPlans(c.Request.Context(), h.GetDB(c), includeInactive)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// CreatePlan godoc
// @Summary Create a plan
// @Tags admin-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePlanRequest true "Plan"
// @Success 201 {object} dto.PlanMutationResponse
// @Router /admin/plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.planService.CreatePlan(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdatePlan godoc
// @Summary Partially update a plan
// @Tags admin-plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param request body dto.UpdatePlanRequest true "Fields to change"
// @Success 200 {object} dto.PlanMutationResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdatePlanRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.planService.UpdatePlan(c.Request.Context(), h.GetDB(c), planID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeletePlan godoc
// @Summary Deactivate a plan
// @Description Plans are never removed; existing memberships and payments keep referencing them.
// @Tags admin-plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.MessageResponse
// @Router /admin/plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), h.GetDB(c), planID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Plan deleted successfully"})
}
