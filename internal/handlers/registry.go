package handlers

import "github.com/gin-gonic/gin"

// RouteRegistrar is implemented by every handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	SystemHandler     *SystemHandler
	AuthHandler       *AuthHandler
	ProfileHandler    *ProfileHandler
	UserHandler       *UserHandler
	PlanHandler       *PlanHandler
	PaymentHandler    *PaymentHandler
	MembershipHandler *MembershipHandler
	ReportHandler     *ReportHandler
}

// All returns the handlers in registration order.
func (h *AppHandlers) All() []RouteRegistrar {
	return []RouteRegistrar{
		h.SystemHandler,
		h.AuthHandler,
		h.ProfileHandler,
		h.UserHandler,
		h.PlanHandler,
		h.PaymentHandler,
		h.MembershipHandler,
		h.ReportHandler,
	}
}
