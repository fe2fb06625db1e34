package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// GormAdminRepository implements identity.AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// Create persists a new admin grant
func (r *GormAdminRepository) Create(ctx context.Context, admin *identity.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// Update saves an admin grant
func (r *GormAdminRepository) Update(ctx context.Context, admin *identity.AdminUser) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

// Delete removes an admin grant
func (r *GormAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.AdminUser{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an admin grant by ID
func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var admin identity.AdminUser
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// FindByUserID finds the admin grant for a user
func (r *GormAdminRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.AdminUser, error) {
	var admin identity.AdminUser
	if err := r.db.WithContext(ctx).First(&admin, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// FindAll returns every admin grant
func (r *GormAdminRepository) FindAll(ctx context.Context) ([]*identity.AdminUser, error) {
	var admins []*identity.AdminUser
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// Ensure GormAdminRepository implements AdminRepository
var _ identity.AdminRepository = (*GormAdminRepository)(nil)
