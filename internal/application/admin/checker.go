package admin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// DefaultGrantTTL bounds how long a revoked grant can keep working
const DefaultGrantTTL = 30 * time.Second

// PermissionChecker answers permission checks against the grant store.
// Token claims are not trusted for gated routes; the store is the source
// of truth, fronted by a short-lived cache to keep hot paths off the
// database.
type PermissionChecker struct {
	adminRepo identity.AdminRepository
	ttl       time.Duration

	mu    sync.RWMutex
	cache map[uuid.UUID]cachedGrant
}

type cachedGrant struct {
	admin     *identity.AdminUser
	expiresAt time.Time
}

// NewPermissionChecker creates a checker with the default cache TTL
func NewPermissionChecker(adminRepo identity.AdminRepository) *PermissionChecker {
	return NewPermissionCheckerWithTTL(adminRepo, DefaultGrantTTL)
}

// NewPermissionCheckerWithTTL creates a checker with a custom cache TTL
func NewPermissionCheckerWithTTL(adminRepo identity.AdminRepository, ttl time.Duration) *PermissionChecker {
	return &PermissionChecker{
		adminRepo: adminRepo,
		ttl:       ttl,
		cache:     make(map[uuid.UUID]cachedGrant),
	}
}

// Check reports whether the user currently holds the permission. A user
// without any admin grant simply fails the check.
func (c *PermissionChecker) Check(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	admin, err := c.grant(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if admin == nil {
		return false, nil
	}
	return admin.HasPermission(permission), nil
}

// Role returns the user's active admin role, or an empty string
func (c *PermissionChecker) Role(ctx context.Context, userID uuid.UUID) (string, error) {
	admin, err := c.grant(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if admin == nil || !admin.Active {
		return "", nil
	}
	return string(admin.Role), nil
}

// Invalidate drops the cached grant for a user so a revocation takes
// effect immediately on this node
func (c *PermissionChecker) Invalidate(userID uuid.UUID) {
	c.mu.Lock()
	delete(c.cache, userID)
	c.mu.Unlock()
}

func (c *PermissionChecker) grant(ctx context.Context, userID uuid.UUID) (*identity.AdminUser, error) {
	c.mu.RLock()
	entry, ok := c.cache[userID]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.admin, nil
	}

	admin, err := c.adminRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// negative entries are cached too
			c.store(userID, nil)
			return nil, nil
		}
		return nil, err
	}

	c.store(userID, admin)
	return admin, nil
}

func (c *PermissionChecker) store(userID uuid.UUID, admin *identity.AdminUser) {
	c.mu.Lock()
	c.cache[userID] = cachedGrant{admin: admin, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
