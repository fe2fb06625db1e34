package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/luxemart/storefront/internal/application/admin"
	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/shared"
)

type stubAdminRepo struct {
	grants map[uuid.UUID]*identity.AdminUser
}

func (r *stubAdminRepo) Create(ctx context.Context, a *identity.AdminUser) error { return nil }
func (r *stubAdminRepo) Update(ctx context.Context, a *identity.AdminUser) error { return nil }
func (r *stubAdminRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (r *stubAdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	return nil, shared.ErrNotFound
}
func (r *stubAdminRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.AdminUser, error) {
	if a, ok := r.grants[userID]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}
func (r *stubAdminRepo) FindAll(ctx context.Context) ([]*identity.AdminUser, error) {
	return nil, nil
}

func permissionTestRouter(checker *admin.PermissionChecker, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(JWTUserIDKey, userID)
		}
		c.Next()
	})
	r.GET("/admin", RequirePermission(checker, identity.PermManageUsers, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequirePermissionAllowsGrantedAdmin(t *testing.T) {
	userID := uuid.New()
	adminUser, _ := identity.NewAdminUser(userID, identity.RoleSuperAdmin)
	checker := admin.NewPermissionChecker(&stubAdminRepo{
		grants: map[uuid.UUID]*identity.AdminUser{userID: adminUser},
	})

	r := permissionTestRouter(checker, userID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionRejectsPlainUser(t *testing.T) {
	checker := admin.NewPermissionChecker(&stubAdminRepo{grants: map[uuid.UUID]*identity.AdminUser{}})

	r := permissionTestRouter(checker, uuid.New().String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionRejectsInsufficientGrant(t *testing.T) {
	userID := uuid.New()
	adminUser, _ := identity.NewAdminUser(userID, identity.RoleModerator)
	checker := admin.NewPermissionChecker(&stubAdminRepo{
		grants: map[uuid.UUID]*identity.AdminUser{userID: adminUser},
	})

	r := permissionTestRouter(checker, userID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireVendor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/vendor", func(c *gin.Context) {
		c.Set(JWTVendorIDKey, uuid.New().String())
		c.Next()
	}, RequireVendor(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/not-vendor", RequireVendor(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vendor", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/not-vendor", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
