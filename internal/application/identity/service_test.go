package identity

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
	"github.com/luxemart/storefront/internal/domain/vendor"
	"github.com/luxemart/storefront/internal/infrastructure/auth"
	"github.com/luxemart/storefront/internal/infrastructure/config"
	"github.com/luxemart/storefront/internal/infrastructure/geo"
)

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

// MockVendorRepository is a mock implementation of vendor.Repository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(ctx context.Context, v *vendor.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVendorRepository) Update(ctx context.Context, v *vendor.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*vendor.Vendor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindBySlug(ctx context.Context, slug string) (*vendor.Vendor, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*vendor.Vendor, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*vendor.Vendor), args.Get(1).(int64), args.Error(2)
}

func (m *MockVendorRepository) FindByStatus(ctx context.Context, status vendor.Status, filter shared.Filter) ([]*vendor.Vendor, int64, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*vendor.Vendor), args.Get(1).(int64), args.Error(2)
}

// MockAddressRepository is a mock implementation of identity.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(ctx context.Context, address *identity.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockAddressRepository) Update(ctx context.Context, address *identity.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*identity.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) FindDefault(ctx context.Context, userID uuid.UUID) (*identity.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Address), args.Error(1)
}

func (m *MockAddressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type stubLocator struct {
	loc *geo.Location
	err error
}

func (s *stubLocator) Locate(ctx context.Context, ip string) (*geo.Location, error) {
	return s.loc, s.err
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-0123456789abcdef0123",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        5,
	})
}

func newAuthService(t *testing.T) (*AuthService, *MockUserRepository, *MockAdminRepository, *MockVendorRepository) {
	t.Helper()
	userRepo := new(MockUserRepository)
	adminRepo := new(MockAdminRepository)
	vendorRepo := new(MockVendorRepository)
	svc := NewAuthService(userRepo, adminRepo, vendorRepo, testJWTService(), auth.NewInMemoryTokenBlacklist(), zap.NewNop())
	return svc, userRepo, adminRepo, vendorRepo
}

func TestRegisterNewUser(t *testing.T) {
	svc, userRepo, adminRepo, vendorRepo := newAuthService(t)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "shopper@example.com").Return(nil, shared.ErrNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
	adminRepo.On("FindByUserID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
	vendorRepo.On("FindByUserID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:     "shopper@example.com",
		Password:  "s3cret-pass",
		FirstName: "Ada",
		LastName:  "Obi",
	})
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	userRepo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, userRepo, _, _ := newAuthService(t)
	ctx := context.Background()

	existing, err := identity.NewUser("shopper@example.com", "whatever-pass", "", "")
	require.NoError(t, err)
	userRepo.On("FindByEmail", ctx, "shopper@example.com").Return(existing, nil)

	_, err = svc.Register(ctx, RegisterRequest{Email: "shopper@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginSuccessCarriesGrants(t *testing.T) {
	svc, userRepo, adminRepo, vendorRepo := newAuthService(t)
	ctx := context.Background()

	user, err := identity.NewUser("mod@example.com", "s3cret-pass", "Mo", "Deratori")
	require.NoError(t, err)
	admin, err := identity.NewAdminUser(user.ID, identity.RoleModerator)
	require.NoError(t, err)
	approved, err := vendor.NewVendor(user.ID, "Mo Store", "mo-store")
	require.NoError(t, err)
	require.NoError(t, approved.Approve())

	userRepo.On("FindByEmail", ctx, "mod@example.com").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)
	adminRepo.On("FindByUserID", ctx, user.ID).Return(admin, nil)
	vendorRepo.On("FindByUserID", ctx, user.ID).Return(approved, nil)

	resp, err := svc.Login(ctx, LoginRequest{Email: "mod@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin)
	assert.Equal(t, string(identity.RoleModerator), resp.User.AdminRole)
	require.NotNil(t, resp.User.VendorID)
	assert.Equal(t, approved.ID, *resp.User.VendorID)

	claims, err := testJWTService().ValidateAccessToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(identity.RoleModerator), claims.AdminRole)
	assert.NotEmpty(t, claims.Permissions)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := identity.NewUser("shopper@example.com", "right-password", "", "")
	require.NoError(t, err)
	userRepo.On("FindByEmail", ctx, "shopper@example.com").Return(user, nil)

	_, err = svc.Login(ctx, LoginRequest{Email: "shopper@example.com", Password: "wrong-password"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, userRepo, _, _ := newAuthService(t)
	ctx := context.Background()

	userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever-pass"})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	svc, userRepo, adminRepo, vendorRepo := newAuthService(t)
	ctx := context.Background()

	user, err := identity.NewUser("shopper@example.com", "s3cret-pass", "", "")
	require.NoError(t, err)

	userRepo.On("FindByEmail", ctx, "shopper@example.com").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	adminRepo.On("FindByUserID", ctx, user.ID).Return(nil, shared.ErrNotFound)
	vendorRepo.On("FindByUserID", ctx, user.ID).Return(nil, shared.ErrNotFound)

	login, err := svc.Login(ctx, LoginRequest{Email: "shopper@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.RefreshToken, pair.RefreshToken)

	// the spent token must be rejected on reuse
	_, err = svc.Refresh(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrTokenBlacklisted)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, userRepo, adminRepo, vendorRepo := newAuthService(t)
	ctx := context.Background()

	user, err := identity.NewUser("shopper@example.com", "s3cret-pass", "", "")
	require.NoError(t, err)
	userRepo.On("FindByEmail", ctx, "shopper@example.com").Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)
	adminRepo.On("FindByUserID", ctx, user.ID).Return(nil, shared.ErrNotFound)
	vendorRepo.On("FindByUserID", ctx, user.ID).Return(nil, shared.ErrNotFound)

	login, err := svc.Login(ctx, LoginRequest{Email: "shopper@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.Tokens.AccessToken, login.Tokens.RefreshToken))

	claims, err := svc.jwtService.ValidateAccessToken(login.Tokens.AccessToken)
	require.NoError(t, err)
	revoked, err := svc.blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewProfileService(userRepo, new(MockAdminRepository), new(MockVendorRepository))
	ctx := context.Background()

	user, err := identity.NewUser("shopper@example.com", "old-password", "", "")
	require.NoError(t, err)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-1",
	})
	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateFirstAddressBecomesDefault(t *testing.T) {
	addressRepo := new(MockAddressRepository)
	svc := NewAddressService(addressRepo, nil, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	addressRepo.On("FindDefault", ctx, userID).Return(nil, shared.ErrNotFound)
	addressRepo.On("Create", ctx, mock.MatchedBy(func(a *identity.Address) bool {
		return a.IsDefault && a.City == "Lagos"
	})).Return(nil)

	resp, err := svc.Create(ctx, userID, AddressRequest{
		Line1:   "12 Marina Rd",
		City:    "Lagos",
		Country: "Nigeria",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	addressRepo.AssertExpectations(t)
}

func TestUpdateAddressOwnedByAnotherUser(t *testing.T) {
	addressRepo := new(MockAddressRepository)
	svc := NewAddressService(addressRepo, nil, zap.NewNop())
	ctx := context.Background()

	owner := uuid.New()
	address, err := identity.NewAddress(owner, "Home", "12 Marina Rd", "Lagos", "Nigeria")
	require.NoError(t, err)
	addressRepo.On("FindByID", ctx, address.ID).Return(address, nil)

	_, err = svc.Update(ctx, uuid.New(), address.ID, AddressRequest{
		Line1: "1 Other St", City: "Abuja", Country: "Nigeria",
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestPrefillSwallowsLookupFailure(t *testing.T) {
	svc := NewAddressService(new(MockAddressRepository), &stubLocator{err: assert.AnError}, zap.NewNop())

	resp := svc.Prefill(context.Background(), "203.0.113.9")
	assert.Empty(t, resp.City)
	assert.Empty(t, resp.Country)
}

func TestPrefillReturnsLocation(t *testing.T) {
	svc := NewAddressService(new(MockAddressRepository), &stubLocator{loc: &geo.Location{
		City: "Lagos", Region: "Lagos State", Country: "Nigeria", PostalCode: "101241",
	}}, zap.NewNop())

	resp := svc.Prefill(context.Background(), "203.0.113.9")
	assert.Equal(t, "Lagos", resp.City)
	assert.Equal(t, "Lagos State", resp.State)
	assert.Equal(t, "Nigeria", resp.Country)
}
