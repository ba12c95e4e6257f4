package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// AuthService handles staff authentication
type AuthService struct {
	staffRepo  repository.StaffRepository
	branchRepo repository.BranchRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	staffRepo repository.StaffRepository,
	branchRepo repository.BranchRepository,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		staffRepo:  staffRepo,
		branchRepo: branchRepo,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Staff       *entity.Staff
	AccessToken string
	ExpiresIn   int64
}

// Login authenticates a staff member and issues an access token scoped to their branch
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return nil, err
	}
	if staff == nil || !utils.CheckPasswordHash(input.Password, staff.Password) {
		return nil, apperror.ErrInvalidCredentials
	}
	if !staff.Active {
		return nil, apperror.NewAppError(403, "Account is disabled")
	}

	token, err := s.jwtManager.GenerateAccessToken(staff.ID, staff.BranchID, staff.Email, staff.Role)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Staff:       staff,
		AccessToken: token,
		ExpiresIn:   int64(s.jwtManager.Expiry().Seconds()),
	}, nil
}

// GetProfile returns the authenticated staff member
func (s *AuthService) GetProfile(ctx context.Context, staffID uuid.UUID) (*entity.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, apperror.NewNotFoundError("Staff")
	}
	return staff, nil
}

// RegisterStaffInput represents a new staff account
type RegisterStaffInput struct {
	BranchID uuid.UUID
	Name     string
	Email    string
	Password string
	Role     string
}

// RegisterStaff creates a staff account in a branch. Managers may only add
// cashiers and waiters; admins may add any role.
func (s *AuthService) RegisterStaff(ctx context.Context, creatorRole string, input *RegisterStaffInput) (*entity.Staff, error) {
	switch input.Role {
	case entity.RoleCashier, entity.RoleWaiter:
	case entity.RoleManager, entity.RoleAdmin:
		if creatorRole != entity.RoleAdmin {
			return nil, apperror.ErrForbidden
		}
	default:
		return nil, apperror.NewFieldError("role", "must be one of admin, manager, cashier, waiter")
	}

	branch, err := s.branchRepo.GetByID(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}

	existing, err := s.staffRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	staff := &entity.Staff{
		BranchID: branch.ID,
		Name:     input.Name,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hashed,
		Role:     input.Role,
		Active:   true,
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}
	staff.Branch = branch
	return staff, nil
}
