package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/domain/vendor"
)

// GormVendorRepository implements vendor.Repository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// Create persists a new vendor
func (r *GormVendorRepository) Create(ctx context.Context, v *vendor.Vendor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

// Update saves a vendor
func (r *GormVendorRepository) Update(ctx context.Context, v *vendor.Vendor) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// FindByID finds a vendor by ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error) {
	var v vendor.Vendor
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindByUserID finds the vendor owned by a user
func (r *GormVendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*vendor.Vendor, error) {
	var v vendor.Vendor
	if err := r.db.WithContext(ctx).First(&v, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindBySlug finds a vendor by its store slug
func (r *GormVendorRepository) FindBySlug(ctx context.Context, slug string) (*vendor.Vendor, error) {
	var v vendor.Vendor
	if err := r.db.WithContext(ctx).First(&v, "slug = ?", strings.ToLower(slug)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindAll lists vendors matching the filter
func (r *GormVendorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*vendor.Vendor, int64, error) {
	return r.list(r.db.WithContext(ctx).Model(&vendor.Vendor{}), filter)
}

// FindByStatus lists vendors in a given approval state
func (r *GormVendorRepository) FindByStatus(ctx context.Context, status vendor.Status, filter shared.Filter) ([]*vendor.Vendor, int64, error) {
	query := r.db.WithContext(ctx).Model(&vendor.Vendor{}).Where("status = ?", status)
	return r.list(query, filter)
}

func (r *GormVendorRepository) list(query *gorm.DB, filter shared.Filter) ([]*vendor.Vendor, int64, error) {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("store_name ILIKE ? OR slug ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, VendorSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var vendors []*vendor.Vendor
	if err := query.Find(&vendors).Error; err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// Ensure GormVendorRepository implements Repository
var _ vendor.Repository = (*GormVendorRepository)(nil)
