package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// MockAdminRepository is a mock implementation of identity.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *identity.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Update(ctx context.Context, admin *identity.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminUser), args.Error(1)
}

func (m *MockAdminRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.AdminUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminUser), args.Error(1)
}

func (m *MockAdminRepository) FindAll(ctx context.Context) ([]*identity.AdminUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.AdminUser), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

// MockSessionRevoker is a mock implementation of SessionRevoker
type MockSessionRevoker struct {
	mock.Mock
}

func (m *MockSessionRevoker) LogoutEverywhere(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type adminMocks struct {
	adminRepo *MockAdminRepository
	userRepo  *MockUserRepository
	sessions  *MockSessionRevoker
}

func newTestService(t *testing.T) (*Service, *MockAdminRepository, *MockUserRepository) {
	t.Helper()
	svc, m := newTestServiceWithMocks(t)
	return svc, m.adminRepo, m.userRepo
}

func newTestServiceWithMocks(t *testing.T) (*Service, *adminMocks) {
	t.Helper()
	m := &adminMocks{
		adminRepo: new(MockAdminRepository),
		userRepo:  new(MockUserRepository),
		sessions:  new(MockSessionRevoker),
	}
	svc := NewService(m.adminRepo, m.userRepo, NewPermissionChecker(m.adminRepo), m.sessions, zap.NewNop())
	return svc, m
}

func TestGrantWithDefaultPermissions(t *testing.T) {
	svc, adminRepo, userRepo := newTestService(t)
	ctx := context.Background()

	user, err := identity.NewUser("mod@example.com", "s3cret-pass", "", "")
	require.NoError(t, err)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	adminRepo.On("FindByUserID", ctx, user.ID).Return(nil, shared.ErrNotFound)
	adminRepo.On("Create", ctx, mock.MatchedBy(func(a *identity.AdminUser) bool {
		return a.Role == identity.RoleModerator && a.HasPermission(identity.PermManageProducts)
	})).Return(nil)

	resp, err := svc.Grant(ctx, GrantRequest{UserID: user.ID, Role: "moderator"})
	require.NoError(t, err)
	assert.ElementsMatch(t, identity.DefaultPermissions(identity.RoleModerator), resp.Permissions)
	adminRepo.AssertExpectations(t)
}

func TestGrantRejectsDuplicate(t *testing.T) {
	svc, adminRepo, userRepo := newTestService(t)
	ctx := context.Background()

	user, err := identity.NewUser("mod@example.com", "s3cret-pass", "", "")
	require.NoError(t, err)
	existing, err := identity.NewAdminUser(user.ID, identity.RoleAdmin)
	require.NoError(t, err)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	adminRepo.On("FindByUserID", ctx, user.ID).Return(existing, nil)

	_, err = svc.Grant(ctx, GrantRequest{UserID: user.ID, Role: "moderator"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ADMIN_EXISTS", domainErr.Code)
}

func TestRevokeLastSuperAdminBlocked(t *testing.T) {
	svc, adminRepo, _ := newTestService(t)
	ctx := context.Background()

	super, err := identity.NewAdminUser(uuid.New(), identity.RoleSuperAdmin)
	require.NoError(t, err)
	adminRepo.On("FindByID", ctx, super.ID).Return(super, nil)
	adminRepo.On("FindAll", ctx).Return([]*identity.AdminUser{super}, nil)

	err = svc.Revoke(ctx, super.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LAST_SUPER_ADMIN", domainErr.Code)
	adminRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRevokeDeactivatesGrant(t *testing.T) {
	svc, adminRepo, _ := newTestService(t)
	ctx := context.Background()

	admin, err := identity.NewAdminUser(uuid.New(), identity.RoleAdmin)
	require.NoError(t, err)
	adminRepo.On("FindByID", ctx, admin.ID).Return(admin, nil)
	adminRepo.On("Update", ctx, mock.MatchedBy(func(a *identity.AdminUser) bool {
		return !a.Active
	})).Return(nil)

	require.NoError(t, svc.Revoke(ctx, admin.ID))
	adminRepo.AssertExpectations(t)
}

func TestSetUserActive(t *testing.T) {
	t.Run("deactivation revokes outstanding sessions", func(t *testing.T) {
		svc, m := newTestServiceWithMocks(t)
		ctx := context.Background()

		user, err := identity.NewUser("ada@example.com", "s3cret-pass", "Ada", "Obi")
		require.NoError(t, err)
		m.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		m.userRepo.On("Update", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return !u.Active
		})).Return(nil)
		m.sessions.On("LogoutEverywhere", ctx, user.ID).Return(nil)

		require.NoError(t, svc.SetUserActive(ctx, user.ID, false))
		m.sessions.AssertExpectations(t)
		m.userRepo.AssertExpectations(t)
	})

	t.Run("reactivation leaves sessions alone", func(t *testing.T) {
		svc, m := newTestServiceWithMocks(t)
		ctx := context.Background()

		user, err := identity.NewUser("ada@example.com", "s3cret-pass", "Ada", "Obi")
		require.NoError(t, err)
		user.Active = false
		m.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		m.userRepo.On("Update", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Active
		})).Return(nil)

		require.NoError(t, svc.SetUserActive(ctx, user.ID, true))
		m.sessions.AssertNotCalled(t, "LogoutEverywhere", mock.Anything, mock.Anything)
	})

	t.Run("revocation failure surfaces to the caller", func(t *testing.T) {
		svc, m := newTestServiceWithMocks(t)
		ctx := context.Background()

		user, err := identity.NewUser("ada@example.com", "s3cret-pass", "Ada", "Obi")
		require.NoError(t, err)
		m.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		m.userRepo.On("Update", ctx, mock.Anything).Return(nil)
		m.sessions.On("LogoutEverywhere", ctx, user.ID).
			Return(shared.NewDomainError("REVOCATION_FAILED", "blacklist unavailable"))

		assert.Error(t, svc.SetUserActive(ctx, user.ID, false))
	})
}

func TestCheckerCachesGrantLookups(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	checker := NewPermissionChecker(adminRepo)
	ctx := context.Background()

	admin, err := identity.NewAdminUser(uuid.New(), identity.RoleModerator)
	require.NoError(t, err)
	adminRepo.On("FindByUserID", ctx, admin.UserID).Return(admin, nil)

	for i := 0; i < 5; i++ {
		ok, err := checker.Check(ctx, admin.UserID, identity.PermManageProducts)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	adminRepo.AssertNumberOfCalls(t, "FindByUserID", 1)
}

func TestCheckerExpiresCache(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	checker := NewPermissionCheckerWithTTL(adminRepo, 10*time.Millisecond)
	ctx := context.Background()

	admin, err := identity.NewAdminUser(uuid.New(), identity.RoleModerator)
	require.NoError(t, err)
	adminRepo.On("FindByUserID", ctx, admin.UserID).Return(admin, nil)

	_, err = checker.Check(ctx, admin.UserID, identity.PermManageProducts)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = checker.Check(ctx, admin.UserID, identity.PermManageProducts)
	require.NoError(t, err)

	adminRepo.AssertNumberOfCalls(t, "FindByUserID", 2)
}

func TestCheckerInvalidateForcesReload(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	checker := NewPermissionChecker(adminRepo)
	ctx := context.Background()

	admin, err := identity.NewAdminUser(uuid.New(), identity.RoleModerator)
	require.NoError(t, err)
	adminRepo.On("FindByUserID", ctx, admin.UserID).Return(admin, nil).Once()

	ok, err := checker.Check(ctx, admin.UserID, identity.PermManageProducts)
	require.NoError(t, err)
	assert.True(t, ok)

	admin.Deactivate()
	checker.Invalidate(admin.UserID)
	adminRepo.On("FindByUserID", ctx, admin.UserID).Return(admin, nil).Once()

	ok, err = checker.Check(ctx, admin.UserID, identity.PermManageProducts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckerNoGrantIsNotAnError(t *testing.T) {
	adminRepo := new(MockAdminRepository)
	checker := NewPermissionChecker(adminRepo)
	ctx := context.Background()
	userID := uuid.New()

	adminRepo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

	ok, err := checker.Check(ctx, userID, identity.PermManageProducts)
	require.NoError(t, err)
	assert.False(t, ok)

	// the negative result is cached too
	ok, err = checker.Check(ctx, userID, identity.PermManageProducts)
	require.NoError(t, err)
	assert.False(t, ok)
	adminRepo.AssertNumberOfCalls(t, "FindByUserID", 1)
}
