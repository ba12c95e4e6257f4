package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	infraRepo "github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	jwt := utils.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(infraRepo.NewStaffRepository(f.db), infraRepo.NewBranchRepository(f.db), jwt)
	ctx := context.Background()

	_, err := svc.RegisterStaff(ctx, entity.RoleManager, &RegisterStaffInput{
		BranchID: f.branchID, Name: "Grace", Email: "grace@example.com", Password: "secret123", Role: entity.RoleManager,
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	staff, err := svc.RegisterStaff(ctx, entity.RoleManager, &RegisterStaffInput{
		BranchID: f.branchID, Name: "Otieno", Email: "Otieno@Example.com", Password: "secret123", Role: entity.RoleCashier,
	})
	require.NoError(t, err)
	assert.Equal(t, "otieno@example.com", staff.Email)

	_, err = svc.RegisterStaff(ctx, entity.RoleAdmin, &RegisterStaffInput{
		BranchID: f.branchID, Name: "Dup", Email: "otieno@example.com", Password: "x", Role: entity.RoleWaiter,
	})
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	_, err = svc.Login(ctx, &LoginInput{Email: "otieno@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	out, err := svc.Login(ctx, &LoginInput{Email: "OTIENO@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), out.ExpiresIn)

	claims, err := jwt.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, claims.StaffID)
	assert.Equal(t, f.branchID, claims.BranchID)
	assert.Equal(t, entity.RoleCashier, claims.Role)
}
