package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/domain/vendor"
)

// ProfileService reads and updates the caller's own account
type ProfileService struct {
	userRepo   identity.UserRepository
	adminRepo  identity.AdminRepository
	vendorRepo vendor.Repository
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo identity.UserRepository,
	adminRepo identity.AdminRepository,
	vendorRepo vendor.Repository,
) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		vendorRepo: vendorRepo,
	}
}

// Get returns the caller's profile with role flags resolved
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)

	if admin, aerr := s.adminRepo.FindByUserID(ctx, userID); aerr == nil && admin.Active {
		resp.IsAdmin = true
		resp.AdminRole = string(admin.Role)
	} else if aerr != nil && !errors.Is(aerr, shared.ErrNotFound) {
		return nil, aerr
	}

	if v, verr := s.vendorRepo.FindByUserID(ctx, userID); verr == nil && v.IsApproved() {
		resp.VendorID = &v.ID
	} else if verr != nil && !errors.Is(verr, shared.ErrNotFound) {
		return nil, verr
	}

	return &resp, nil
}

// Update changes the caller's display fields
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.UpdateProfile(req.FirstName, req.LastName, req.Phone, req.AvatarURL)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ChangePassword rotates the caller's password after verifying the
// current one
func (s *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}
