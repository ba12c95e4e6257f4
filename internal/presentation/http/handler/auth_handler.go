package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/hotel-billing-api/internal/application/service"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles staff login
// @Summary Login
// @Description Authenticate a staff member and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"staff": gin.H{
			"id":        output.Staff.ID,
			"name":      output.Staff.Name,
			"email":     output.Staff.Email,
			"role":      output.Staff.Role,
			"branch_id": output.Staff.BranchID,
		},
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   output.ExpiresIn,
	})
}

// GetProfile returns the authenticated staff member
// @Summary Get profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	staffID := GetStaffID(c)
	if staffID == nil {
		response.Unauthorized(c, "Staff not authenticated")
		return
	}

	staff, err := h.authService.GetProfile(c.Request.Context(), *staffID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", staff)
}

// RegisterStaff adds a staff member to the caller's branch
// @Summary Register staff
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.RegisterStaffRequest true "Staff data"
// @Success 201 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /staff [post]
func (h *AuthHandler) RegisterStaff(c *gin.Context) {
	var req request.RegisterStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	staff, err := h.authService.RegisterStaff(c.Request.Context(), GetStaffRole(c), &service.RegisterStaffInput{
		BranchID: middleware.GetBranchID(c),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Staff member registered successfully", staff)
}
