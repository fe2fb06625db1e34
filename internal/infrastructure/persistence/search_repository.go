package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luxemart/storefront/internal/domain/search"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// GormSearchRepository implements search.Repository using GORM
type GormSearchRepository struct {
	db *gorm.DB
}

// NewGormSearchRepository creates a new GormSearchRepository
func NewGormSearchRepository(db *gorm.DB) *GormSearchRepository {
	return &GormSearchRepository{db: db}
}

// ListPopularSearches returns search terms in display order: curation
// order first, then search traffic
func (r *GormSearchRepository) ListPopularSearches(ctx context.Context, limit int) ([]*search.PopularSearch, error) {
	var terms []*search.PopularSearch
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, search_count DESC").
		Limit(limit).
		Find(&terms).Error; err != nil {
		return nil, err
	}
	return terms, nil
}

// ListPopularCategories returns panel categories in display order
func (r *GormSearchRepository) ListPopularCategories(ctx context.Context, limit int) ([]*search.PopularCategory, error) {
	var pinned []*search.PopularCategory
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, search_count DESC").
		Limit(limit).
		Find(&pinned).Error; err != nil {
		return nil, err
	}
	return pinned, nil
}

// SavePopularSearch creates or updates a curated term by its text
func (r *GormSearchRepository) SavePopularSearch(ctx context.Context, term *search.PopularSearch) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "term"}},
		DoUpdates: clause.AssignmentColumns([]string{"sort_order", "updated_at"}),
	}).Create(term).Error
}

// SavePopularCategory creates or updates a pinned category
func (r *GormSearchRepository) SavePopularCategory(ctx context.Context, pinned *search.PopularCategory) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sort_order", "updated_at"}),
	}).Create(pinned).Error
}

// RecordSearch bumps a term's counter, inserting the row on first use.
// The increment happens in the database so concurrent searches never
// lose a count.
func (r *GormSearchRepository) RecordSearch(ctx context.Context, term string) error {
	rec, err := search.NewPopularSearch(term, 0)
	if err != nil {
		return err
	}
	rec.SearchCount = 1
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "term"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"search_count": gorm.Expr("popular_searches.search_count + 1"),
			"updated_at":   rec.UpdatedAt,
		}),
	}).Create(rec).Error
}

// RecordCategoryHit bumps a category's counter, inserting on first hit
func (r *GormSearchRepository) RecordCategoryHit(ctx context.Context, categoryID uuid.UUID) error {
	rec := search.NewPopularCategory(categoryID, 0)
	rec.SearchCount = 1
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "category_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"search_count": gorm.Expr("popular_categories.search_count + 1"),
			"updated_at":   rec.UpdatedAt,
		}),
	}).Create(rec).Error
}

// DeletePopularSearch removes a curated term
func (r *GormSearchRepository) DeletePopularSearch(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&search.PopularSearch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeletePopularCategory removes a pinned category
func (r *GormSearchRepository) DeletePopularCategory(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&search.PopularCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSearchRepository implements Repository
var _ search.Repository = (*GormSearchRepository)(nil)
