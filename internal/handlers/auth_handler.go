package handlers

import (
	"net/http"

	"github.com/loki1512/MS-Fitness-Gym/internal/services"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	limiter     gin.HandlerFunc
}

// NewAuthHandler builds the public auth endpoints. limiter guards the
// credential endpoints and may be nil.
func NewAuthHandler(base *BaseHandler, authService services.AuthService, limiter gin.HandlerFunc) *AuthHandler {
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		limiter:     limiter,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("")
	public.Use(h.limiter)
	{
		public.POST("/init-admin", h.InitAdmin)
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
	}
}

// InitAdmin godoc
// @Summary Bootstrap the first admin
// @Description Creates the first admin account. Refused once any admin exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Admin account"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Admin already exists"
// @Router /init-admin [post]
func (h *AuthHandler) InitAdmin(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.InitAdmin(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Register godoc
// @Summary Register a member
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Member details"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Phone or email already registered"
// @Failure 429 {object} apperrors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials, refreshes the member's membership statuses and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apperrors.ErrorResponse "Invalid credentials or deactivated account"
// @Failure 429 {object} apperrors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
