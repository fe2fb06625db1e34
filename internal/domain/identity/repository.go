package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// UserRepository defines the persistence operations for user accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*User, int64, error)
}

// AddressRepository defines the persistence operations for saved addresses
type AddressRepository interface {
	Create(ctx context.Context, address *Address) error
	Update(ctx context.Context, address *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)
	FindDefault(ctx context.Context, userID uuid.UUID) (*Address, error)

	// SetDefault marks one address as the user's default and clears the
	// flag on the rest, in one transaction.
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

// AdminRepository defines the persistence operations for admin grants
type AdminRepository interface {
	Create(ctx context.Context, admin *AdminUser) error
	Update(ctx context.Context, admin *AdminUser) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*AdminUser, error)
	FindAll(ctx context.Context) ([]*AdminUser, error)
}
