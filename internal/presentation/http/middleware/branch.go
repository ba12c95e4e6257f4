package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/internal/presentation/http/dto/response"
)

// BranchHeader lets an admin act on another branch than their own
const BranchHeader = "X-Branch-ID"

// BranchMiddleware switches the request to the branch named in X-Branch-ID.
// Only admins may switch; for everyone else the header must match their own branch.
func BranchMiddleware(branchRepo repository.BranchRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(BranchHeader)
		if header == "" {
			c.Next()
			return
		}

		branchID, err := uuid.Parse(header)
		if err != nil {
			response.BadRequest(c, "Invalid "+BranchHeader+" header")
			c.Abort()
			return
		}
		if branchID == GetBranchID(c) {
			c.Next()
			return
		}
		if c.GetString(StaffRoleKey) != entity.RoleAdmin {
			response.Forbidden(c, "Access denied to this branch")
			c.Abort()
			return
		}

		branch, err := branchRepo.GetByID(c.Request.Context(), branchID)
		if err != nil || branch == nil {
			response.NotFound(c, "Branch not found")
			c.Abort()
			return
		}

		c.Set(BranchIDKey, branch.ID)
		ctx := infraRepo.WithBranch(c.Request.Context(), branch.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireBranch ensures a valid branch context exists
func RequireBranch() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetBranchID(c) == uuid.Nil {
			response.BadRequest(c, "Branch context required")
			c.Abort()
			return
		}
		c.Next()
	}
}
