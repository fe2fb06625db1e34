package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/domain/vendor"
	"github.com/luxemart/storefront/internal/infrastructure/auth"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	adminRepo  identity.AdminRepository
	vendorRepo vendor.Repository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo identity.UserRepository,
	adminRepo identity.AdminRepository,
	vendorRepo vendor.Repository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		vendorRepo: vendorRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Register creates a new user account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.issueTokens(ctx, user)
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "This account has been disabled")
	}
	if !user.CheckPassword(req.Password) {
		return nil, invalidCredentials()
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("failed to record login time", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. Grants are re-read
// from the store so a revoked admin or vendor role does not survive the
// rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if revoked, berr := s.blacklist.IsBlacklisted(ctx, claims.ID); berr == nil && revoked {
		return nil, auth.ErrTokenBlacklisted
	}
	if invalidated, berr := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime()); berr == nil && invalidated {
		return nil, auth.ErrTokenBlacklisted
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, auth.ErrInvalidClaims
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "This account has been disabled")
	}

	input, err := s.tokenInput(ctx, user)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtService.RefreshTokenPair(refreshToken, input)
	if err != nil {
		return nil, err
	}

	// the spent refresh token is single use
	if berr := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); berr != nil {
		s.logger.Warn("failed to revoke spent refresh token", zap.Error(berr))
	}
	return pair, nil
}

// Logout revokes the presented tokens
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwtService.ValidateAccessToken(accessToken); err == nil {
		if berr := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); berr != nil {
			return berr
		}
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		// an expired refresh token needs no revocation
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL())
}

// LogoutEverywhere invalidates every token the user holds
func (s *AuthService) LogoutEverywhere(ctx context.Context, userID uuid.UUID) error {
	return s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.jwtService.GetRefreshTokenExpiration())
}

func (s *AuthService) issueTokens(ctx context.Context, user *identity.User) (*AuthResponse, error) {
	input, err := s.tokenInput(ctx, user)
	if err != nil {
		return nil, err
	}
	pair, err := s.jwtService.GenerateTokenPair(input)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	resp.AdminRole = input.AdminRole
	resp.IsAdmin = input.AdminRole != ""
	resp.VendorID = input.VendorID
	return &AuthResponse{User: resp, Tokens: pair}, nil
}

// tokenInput assembles the claims for a user from the grant stores
func (s *AuthService) tokenInput(ctx context.Context, user *identity.User) (auth.GenerateTokenInput, error) {
	input := auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
	}

	admin, err := s.adminRepo.FindByUserID(ctx, user.ID)
	if err == nil && admin.Active {
		input.AdminRole = string(admin.Role)
		input.Permissions = admin.Permissions
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return input, err
	}

	v, err := s.vendorRepo.FindByUserID(ctx, user.ID)
	if err == nil && v.IsApproved() {
		input.VendorID = &v.ID
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return input, err
	}

	return input, nil
}

func invalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
}
