package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create persists a new product with its images and specs
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update saves a product and replaces its image and spec rows
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&catalog.ProductSpec{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
	})
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a product by its ID with images, specs and categories
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.preloaded(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug finds a product by its slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.preloaded(ctx).First(&product, "slug = ?", strings.ToLower(slug)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindPublished lists published products matching the filter
func (r *GormProductRepository) FindPublished(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("published = ?", true)
	return r.list(ctx, query, filter)
}

// FindByVendor lists a vendor's products, published or not
func (r *GormProductRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]*catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("vendor_id = ?", vendorID)
	return r.list(ctx, query, filter)
}

// FindByCategory lists published products in a category
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]*catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Where("pc.category_id = ? AND published = ?", categoryID, true)
	return r.list(ctx, query, filter)
}

// SearchPublished matches published products whose name or slug
// contains the query, case-insensitively
func (r *GormProductRepository) SearchPublished(ctx context.Context, query string, limit int) ([]*catalog.Product, error) {
	var products []*catalog.Product
	pattern := "%" + query + "%"
	if err := r.preloaded(ctx).
		Where("published = ? AND (name ILIKE ? OR slug ILIKE ?)", true, pattern, pattern).
		Order("search_hit_count DESC, name ASC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// IncrementViewCount bumps the view counter atomically
func (r *GormProductRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.increment(ctx, id, "view_count")
}

// IncrementSearchHitCount bumps the search hit counter atomically
func (r *GormProductRepository) IncrementSearchHitCount(ctx context.Context, id uuid.UUID) error {
	return r.increment(ctx, id, "search_hit_count")
}

func (r *GormProductRepository) increment(ctx context.Context, id uuid.UUID, column string) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReplaceCategories replaces the product's category assignments
func (r *GormProductRepository) ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	categories := make([]catalog.Category, len(categoryIDs))
	for i, id := range categoryIDs {
		categories[i] = catalog.Category{BaseEntity: shared.BaseEntity{ID: id}}
	}
	product := catalog.Product{BaseEntity: shared.BaseEntity{ID: productID}}
	return r.db.WithContext(ctx).Model(&product).Association("Categories").Replace(categories)
}

func (r *GormProductRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Specs", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Categories")
}

func (r *GormProductRepository) list(ctx context.Context, query *gorm.DB, filter shared.Filter) ([]*catalog.Product, int64, error) {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var products []*catalog.Product
	if err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
