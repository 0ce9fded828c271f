package handlers

import (
	"net/http"

	"github.com/loki1512/MS-Fitness-Gym/internal/middleware"
	"github.com/loki1512/MS-Fitness-Gym/internal/services"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UserHandler is the staff view over members and managers.
type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := rg.Group("/admin")
	staff.Use(middleware.AuthMiddleware(), middleware.StaffOnly())
	{
		staff.GET("/users/:id", h.GetUser)
		staff.GET("/members", h.ListMembers)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.PUT("/users/:id", h.UpdateUser)
		admin.POST("/managers", h.CreateManager)
		admin.GET("/managers", h.ListManagers)
	}
}

// GetUser godoc
// @Summary User detail
// @Description Roles, current membership, membership and payment history. Statuses are refreshed first.
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserDetailResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.userService.GetUserDetail(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateUser godoc
// @Summary Update any user field
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.AdminUpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.MessageResponse
// @Router /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	userID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.AdminUpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.AdminUpdateUser(c.Request.Context(), h.GetDB(c), adminID, userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User updated successfully"})
}

// ListMembers godoc
// @Summary List members
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email or phone fragment"
// @Param gender query string false "male, female or other"
// @Param plan query string false "Current plan name"
// @Param dob_from query string false "YYYY-MM-DD"
// @Param dob_to query string false "YYYY-MM-DD"
// @Success 200 {object} dto.MemberListResponse
// @Router /admin/members [get]
func (h *UserHandler) ListMembers(c *gin.Context) {
	var filter dto.MemberFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	resp, err := h.userService.ListMembers(c.Request.Context(), h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateManager godoc
// @Summary Create a manager
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterRequest true "Manager account"
// @Success 201 {object} dto.RegisterResponse
// @Router /admin/managers [post]
func (h *UserHandler) CreateManager(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.userService.CreateManager(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListManagers godoc
// @Summary List managers
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ManagerResponse
// @Router /admin/managers [get]
func (h *UserHandler) ListManagers(c *gin.Context) {
	managers, err := h.userService.ListManagers(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, managers)
}
