package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// ProductRepository defines the persistence operations for products
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindPublished(ctx context.Context, filter shared.Filter) ([]*Product, int64, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]*Product, int64, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]*Product, int64, error)

	// SearchPublished matches published products whose name or slug
	// contains the query, case-insensitively, up to limit rows.
	SearchPublished(ctx context.Context, query string, limit int) ([]*Product, error)

	// IncrementViewCount and IncrementSearchHitCount bump the counters
	// atomically in the database rather than read-modify-write.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	IncrementSearchHitCount(ctx context.Context, id uuid.UUID) error

	ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error
}

// CategoryRepository defines the persistence operations for categories
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context) ([]*Category, error)
	FindTopLevel(ctx context.Context) ([]*Category, error)

	// SearchByNameOrSlug matches categories whose name or slug contains
	// the query, case-insensitively, up to limit rows.
	SearchByNameOrSlug(ctx context.Context, query string, limit int) ([]*Category, error)
}
