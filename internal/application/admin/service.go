package admin

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// SessionRevoker invalidates every token a user holds
type SessionRevoker interface {
	LogoutEverywhere(ctx context.Context, userID uuid.UUID) error
}

// Service manages admin grants and the admin view of user accounts
type Service struct {
	adminRepo identity.AdminRepository
	userRepo  identity.UserRepository
	checker   *PermissionChecker
	sessions  SessionRevoker
	logger    *zap.Logger
}

// NewService creates a new admin service. The checker and revoker may be
// nil when no cache or session invalidation is needed.
func NewService(adminRepo identity.AdminRepository, userRepo identity.UserRepository, checker *PermissionChecker, sessions SessionRevoker, logger *zap.Logger) *Service {
	return &Service{
		adminRepo: adminRepo,
		userRepo:  userRepo,
		checker:   checker,
		sessions:  sessions,
		logger:    logger,
	}
}

// Grant gives back-office access to an existing user. An explicit
// permission list overrides the role's default set.
func (s *Service) Grant(ctx context.Context, req GrantRequest) (*AdminResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.adminRepo.FindByUserID(ctx, req.UserID); err == nil {
		return nil, shared.NewDomainError("ADMIN_EXISTS", "This user already has an admin grant")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	admin, err := identity.NewAdminUser(req.UserID, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if len(req.Permissions) > 0 {
		admin.SetPermissions(req.Permissions)
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	// a cached negative lookup would otherwise delay the new grant
	s.invalidate(admin.UserID)

	s.logger.Info("admin grant created",
		zap.String("user_id", req.UserID.String()),
		zap.String("role", req.Role))
	return toAdminResponse(admin), nil
}

// Revoke deactivates an admin grant. The last active super admin cannot
// be revoked.
func (s *Service) Revoke(ctx context.Context, adminID uuid.UUID) error {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return err
	}

	if admin.Role == identity.RoleSuperAdmin {
		remaining, err := s.activeSuperAdmins(ctx)
		if err != nil {
			return err
		}
		if remaining <= 1 {
			return shared.NewDomainError("LAST_SUPER_ADMIN", "Cannot revoke the last super admin")
		}
	}

	admin.Deactivate()
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return err
	}
	s.invalidate(admin.UserID)

	s.logger.Info("admin grant revoked", zap.String("user_id", admin.UserID.String()))
	return nil
}

// UpdatePermissions replaces an admin's permission list
func (s *Service) UpdatePermissions(ctx context.Context, adminID uuid.UUID, req UpdatePermissionsRequest) (*AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	admin.SetPermissions(req.Permissions)
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return nil, err
	}
	s.invalidate(admin.UserID)
	return toAdminResponse(admin), nil
}

// List returns all admin grants
func (s *Service) List(ctx context.Context) ([]*AdminResponse, error) {
	admins, err := s.adminRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*AdminResponse, len(admins))
	for i, a := range admins {
		responses[i] = toAdminResponse(a)
	}
	return responses, nil
}

// ListUsers returns user accounts for the back office
func (s *Service) ListUsers(ctx context.Context, filter shared.Filter) (*UserListResponse, error) {
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	summaries := make([]*UserSummary, len(users))
	for i, u := range users {
		summaries[i] = toUserSummary(u)
	}
	return &UserListResponse{
		Users:    summaries,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// SetUserActive enables or disables a user account. Deactivation also
// revokes the user's outstanding sessions and any cached admin grant,
// so the issued tokens stop working immediately.
func (s *Service) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Active = active
	user.Touch()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if !active {
		s.invalidate(userID)
		if s.sessions != nil {
			if err := s.sessions.LogoutEverywhere(ctx, userID); err != nil {
				s.logger.Error("failed to revoke sessions of deactivated user",
					zap.String("user_id", userID.String()), zap.Error(err))
				return err
			}
		}
		s.logger.Info("user deactivated", zap.String("user_id", userID.String()))
	}
	return nil
}

func (s *Service) activeSuperAdmins(ctx context.Context) (int, error) {
	admins, err := s.adminRepo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, a := range admins {
		if a.Role == identity.RoleSuperAdmin && a.Active {
			count++
		}
	}
	return count, nil
}

func (s *Service) invalidate(userID uuid.UUID) {
	if s.checker != nil {
		s.checker.Invalidate(userID)
	}
}
