package handlers

import (
	"net/http"

	"github.com/loki1512/MS-Fitness-Gym/internal/middleware"
	"github.com/loki1512/MS-Fitness-Gym/internal/services"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	member := rg.Group("/payments")
	member.Use(middleware.AuthMiddleware())
	{
		member.POST("/submit", h.Submit)
		member.GET("/history", h.History)
	}

	admin := rg.Group("/admin/payments")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.GET("/pending", h.Pending)
		admin.POST("/:id/approve", h.Approve)
		admin.POST("/:id/reject", h.Reject)
	}
}

// Submit godoc
// @Summary Submit a payment for approval
// @Description UPI payments need a 12 digit UTR not used by any other pending or approved payment.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitPaymentRequest true "Payment"
// @Success 201 {object} dto.SubmitPaymentResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "UTR already used"
// @Router /payments/submit [post]
func (h *PaymentHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.paymentService.Submit(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// History godoc
// @Summary Own payments, newest first
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PaymentHistoryItem
// @Router /payments/history [get]
func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.paymentService.History(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Pending godoc
// @Summary Payments awaiting a decision
// @Tags admin-payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PendingPaymentItem
// @Router /admin/payments/pending [get]
func (h *PaymentHandler) Pending(c *gin.Context) {
	items, err := h.paymentService.Pending(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Approve godoc
// @Summary Approve a payment
// @Description Marks the payment Approved and grants or extends the member's membership in one transaction.
// @Tags admin-payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.MembershipGrantResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Payment already processed"
// @Router /admin/payments/{id}/approve [post]
func (h *PaymentHandler) Approve(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	paymentID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.paymentService.Approve(c.Request.Context(), h.GetDB(c), adminID, paymentID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Reject godoc
// @Summary Reject a payment
// @Tags admin-payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body dto.RejectPaymentRequest false "Optional reason"
// @Success 200 {object} dto.MessageResponse
// @Failure 409 {object} apperrors.ErrorResponse "Payment already processed"
// @Router /admin/payments/{id}/reject [post]
func (h *PaymentHandler) Reject(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	paymentID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.RejectPaymentRequest
	if !h.BindAndValidate_OptionalJSON(c, &req) {
		return
	}

	if err := h.paymentService.Reject(c.Request.Context(), h.GetDB(c), adminID, paymentID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Payment rejected"})
}
