package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	infraRepo "github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// Gin context keys set by AuthMiddleware
const (
	StaffIDKey    = "staff_id"
	StaffEmailKey = "staff_email"
	StaffRoleKey  = "staff_role"
	BranchIDKey   = "branch_id"
)

// AuthMiddleware creates a JWT authentication middleware. The staff member's
// branch is put on the request context so every repository query is scoped to it.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(StaffIDKey, claims.StaffID)
		c.Set(StaffEmailKey, claims.Email)
		c.Set(StaffRoleKey, claims.Role)
		c.Set(BranchIDKey, claims.BranchID)

		ctx := infraRepo.WithBranch(c.Request.Context(), claims.BranchID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given roles.
// Admins pass every role check.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(StaffRoleKey)
		if role == "" {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		if role == entity.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// GetStaffID retrieves the authenticated staff ID from gin context
func GetStaffID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(StaffIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetBranchID retrieves the active branch ID from gin context
func GetBranchID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(BranchIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
