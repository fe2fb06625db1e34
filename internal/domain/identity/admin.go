package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// Role is the admin role tier
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
)

// Admin permission names
const (
	PermManageProducts   = "manage_products"
	PermManageCategories = "manage_categories"
	PermManageOrders     = "manage_orders"
	PermManageVendors    = "manage_vendors"
	PermManageUsers      = "manage_users"
	PermManageAdmins     = "manage_admins"
	PermViewAnalytics    = "view_analytics"
)

// defaultPermissions is what each role gets when created without an
// explicit permission list
var defaultPermissions = map[Role][]string{
	RoleSuperAdmin: {
		PermManageProducts, PermManageCategories, PermManageOrders,
		PermManageVendors, PermManageUsers, PermManageAdmins, PermViewAnalytics,
	},
	RoleAdmin: {
		PermManageProducts, PermManageCategories, PermManageOrders,
		PermManageVendors, PermViewAnalytics,
	},
	RoleModerator: {
		PermManageProducts, PermViewAnalytics,
	},
}

// AdminUser grants back-office access to an existing user account
type AdminUser struct {
	shared.BaseEntity
	UserID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Role        Role           `gorm:"type:varchar(20);not null"`
	Permissions pq.StringArray `gorm:"type:text[]"`
	Active      bool           `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AdminUser) TableName() string {
	return "admin_users"
}

// NewAdminUser grants a role with its default permission set
func NewAdminUser(userID uuid.UUID, role Role) (*AdminUser, error) {
	perms, ok := defaultPermissions[role]
	if !ok {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown admin role")
	}

	return &AdminUser{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Role:        role,
		Permissions: append(pq.StringArray{}, perms...),
		Active:      true,
	}, nil
}

// HasPermission checks a named permission. Super admins pass every check
// regardless of their stored permission list.
func (a *AdminUser) HasPermission(permission string) bool {
	if !a.Active {
		return false
	}
	if a.Role == RoleSuperAdmin {
		return true
	}
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// SetPermissions replaces the permission list
func (a *AdminUser) SetPermissions(permissions []string) {
	a.Permissions = append(pq.StringArray{}, permissions...)
	a.UpdatedAt = time.Now()
}

// Deactivate revokes back-office access without deleting the grant
func (a *AdminUser) Deactivate() {
	a.Active = false
	a.UpdatedAt = time.Now()
}

// Activate restores back-office access
func (a *AdminUser) Activate() {
	a.Active = true
	a.UpdatedAt = time.Now()
}

// DefaultPermissions returns a copy of the default permission set for a role
func DefaultPermissions(role Role) []string {
	return append([]string{}, defaultPermissions[role]...)
}
