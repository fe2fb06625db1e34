package search

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for the suggestion
// panel and its analytics counters
type Repository interface {
	ListPopularSearches(ctx context.Context, limit int) ([]*PopularSearch, error)
	ListPopularCategories(ctx context.Context, limit int) ([]*PopularCategory, error)
	SavePopularSearch(ctx context.Context, term *PopularSearch) error
	SavePopularCategory(ctx context.Context, pinned *PopularCategory) error
	DeletePopularSearch(ctx context.Context, id uuid.UUID) error
	DeletePopularCategory(ctx context.Context, id uuid.UUID) error

	// RecordSearch upserts a term, incrementing its counter atomically
	RecordSearch(ctx context.Context, term string) error
	// RecordCategoryHit upserts a category, incrementing its counter atomically
	RecordCategoryHit(ctx context.Context, categoryID uuid.UUID) error
}
