package admin

import (
	"time"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/identity"
)

// GrantRequest grants back-office access to an existing user
type GrantRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	Role        string    `json:"role" binding:"required,oneof=super_admin admin moderator"`
	Permissions []string  `json:"permissions"`
}

// UpdatePermissionsRequest replaces an admin's permission list
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// AdminResponse represents an admin grant in API responses
type AdminResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserListResponse is a paginated list of user accounts
type UserListResponse struct {
	Users    []*UserSummary `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// UserSummary is the admin-facing view of a user account
type UserSummary struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toAdminResponse(a *identity.AdminUser) *AdminResponse {
	return &AdminResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Role:        string(a.Role),
		Permissions: append([]string{}, a.Permissions...),
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
	}
}

func toUserSummary(u *identity.User) *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
