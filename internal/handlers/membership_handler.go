package handlers

import (
	"net/http"

	"github.com/loki1512/MS-Fitness-Gym/internal/middleware"
	"github.com/loki1512/MS-Fitness-Gym/internal/services"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// MembershipHandler covers manual renewals, status refresh and the renewal
// follow-up lists.
type MembershipHandler struct {
	*BaseHandler
	membershipService   services.MembershipService
	reportService       services.ReportService
	notificationService services.NotificationService
}

func NewMembershipHandler(
	base *BaseHandler,
	membershipService services.MembershipService,
	reportService services.ReportService,
	notificationService services.NotificationService,
) *MembershipHandler {
	return &MembershipHandler{
		BaseHandler:         base,
		membershipService:   membershipService,
		reportService:       reportService,
		notificationService: notificationService,
	}
}

func (h *MembershipHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.POST("/memberships/:user_id/renew", h.Renew)
		admin.POST("/memberships/refresh", h.RefreshStatuses)

		admin.GET("/priority-list", h.PriorityList)
		admin.POST("/priority-list/remind", h.SendReminders)
		admin.GET("/expired-members", h.ExpiredMembers)
	}
}

// Renew godoc
// @Summary Renew a membership manually
// @Description Extends the member's access and records an approved Cash payment for the plan price.
// @Tags admin-memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Member ID"
// @Param request body dto.RenewMembershipRequest true "Plan"
// @Success 200 {object} dto.MembershipGrantResponse
// @Failure 404 {object} apperrors.ErrorResponse "User or plan not found"
// @Router /admin/memberships/{user_id}/renew [post]
func (h *MembershipHandler) Renew(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	userID, err := ParseParamID(c, "user_id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.RenewMembershipRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.membershipService.Renew(c.Request.Context(), h.GetDB(c), adminID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshStatuses godoc
// @Summary Reclassify every membership as of today
// @Tags admin-memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.RefreshStatusesResponse
// @Router /admin/memberships/refresh [post]
func (h *MembershipHandler) RefreshStatuses(c *gin.Context) {
	updated, err := h.membershipService.RefreshAll(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RefreshStatusesResponse{
		Message: "Membership statuses refreshed",
		Updated: updated,
	})
}

// PriorityList godoc
// @Summary Memberships ending within the expiring window
// @Tags admin-memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PriorityItem
// @Router /admin/priority-list [get]
func (h *MembershipHandler) PriorityList(c *gin.Context) {
	items, err := h.reportService.PriorityList(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// SendReminders godoc
// @Summary Email renewal reminders
// @Tags admin-memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ReminderResponse
// @Router /admin/priority-list/remind [post]
func (h *MembershipHandler) SendReminders(c *gin.Context) {
	resp, err := h.notificationService.SendRenewalReminders(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExpiredMembers godoc
// @Summary Members whose latest membership has lapsed
// @Tags admin-memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ExpiredMemberItem
// @Router /admin/expired-members [get]
func (h *MembershipHandler) ExpiredMembers(c *gin.Context) {
	items, err := h.reportService.ExpiredMembers(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
