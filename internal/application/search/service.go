package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/search"
)

const suggestLimit = 10
const popularLimit = 8

// Service resolves search suggestions and records search analytics
type Service struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	searchRepo   search.Repository
	logger       *zap.Logger
}

// NewService creates a new search Service
func NewService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	searchRepo search.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		searchRepo:   searchRepo,
		logger:       logger,
	}
}

// Suggest resolves the suggestion panel for a query. An empty or
// whitespace-only query returns the curated popular panel instead of
// running a match. A non-empty query with hits records analytics for
// the term, the first matching category, and the first matching
// product; analytics failures are logged and never fail the suggestion.
func (s *Service) Suggest(ctx context.Context, query string) (*SuggestionsResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.curatedPanel(ctx)
	}

	products, err := s.productRepo.SearchPublished(ctx, query, suggestLimit)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.SearchByNameOrSlug(ctx, query, suggestLimit)
	if err != nil {
		return nil, err
	}

	if len(products) > 0 || len(categories) > 0 {
		s.recordAnalytics(ctx, query, products, categories)
	}

	resp := &SuggestionsResponse{
		Query:      query,
		Products:   make([]ProductSuggestion, 0, len(products)),
		Categories: make([]CategorySuggestion, 0, len(categories)),
	}
	for _, p := range products {
		resp.Products = append(resp.Products, ProductSuggestion{
			ID:       p.ID,
			Name:     p.Name,
			Slug:     p.Slug,
			Price:    p.Price,
			ImageURL: p.PrimaryImageURL(),
		})
	}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, CategorySuggestion{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	return resp, nil
}

// recordAnalytics writes the per-query counters. The first match wins
// for both the category and product counters.
func (s *Service) recordAnalytics(ctx context.Context, query string, products []*catalog.Product, categories []*catalog.Category) {
	if err := s.searchRepo.RecordSearch(ctx, query); err != nil {
		s.logger.Warn("failed to record search term", zap.String("query", query), zap.Error(err))
	}
	if len(categories) > 0 {
		if err := s.searchRepo.RecordCategoryHit(ctx, categories[0].ID); err != nil {
			s.logger.Warn("failed to record category hit",
				zap.String("query", query),
				zap.String("category_id", categories[0].ID.String()),
				zap.Error(err))
		}
	}
	if len(products) > 0 {
		if err := s.productRepo.IncrementSearchHitCount(ctx, products[0].ID); err != nil {
			s.logger.Warn("failed to record search hit",
				zap.String("query", query),
				zap.String("product_id", products[0].ID.String()),
				zap.Error(err))
		}
	}
}

func (s *Service) curatedPanel(ctx context.Context) (*SuggestionsResponse, error) {
	terms, err := s.searchRepo.ListPopularSearches(ctx, popularLimit)
	if err != nil {
		return nil, err
	}
	pinned, err := s.searchRepo.ListPopularCategories(ctx, popularLimit)
	if err != nil {
		return nil, err
	}

	resp := &SuggestionsResponse{
		Query:           "",
		Products:        []ProductSuggestion{},
		Categories:      []CategorySuggestion{},
		PopularSearches: make([]string, 0, len(terms)),
	}
	for _, t := range terms {
		resp.PopularSearches = append(resp.PopularSearches, t.Term)
	}
	for _, p := range pinned {
		category, err := s.categoryRepo.FindByID(ctx, p.CategoryID)
		if err != nil {
			s.logger.Warn("pinned category missing", zap.String("category_id", p.CategoryID.String()), zap.Error(err))
			continue
		}
		resp.PopularCategories = append(resp.PopularCategories, CategorySuggestion{
			ID:   category.ID,
			Name: category.Name,
			Slug: category.Slug,
		})
	}
	return resp, nil
}

// PopularSearches returns the term analytics for the admin panel
func (s *Service) PopularSearches(ctx context.Context, limit int) ([]PopularSearchRow, error) {
	terms, err := s.searchRepo.ListPopularSearches(ctx, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]PopularSearchRow, 0, len(terms))
	for _, t := range terms {
		rows = append(rows, PopularSearchRow{
			ID:          t.ID,
			Term:        t.Term,
			SortOrder:   t.SortOrder,
			SearchCount: t.SearchCount,
		})
	}
	return rows, nil
}

// PopularCategories returns the category analytics for the admin panel.
// A dangling category reference is skipped, not fatal.
func (s *Service) PopularCategories(ctx context.Context, limit int) ([]PopularCategoryRow, error) {
	pinned, err := s.searchRepo.ListPopularCategories(ctx, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]PopularCategoryRow, 0, len(pinned))
	for _, p := range pinned {
		category, err := s.categoryRepo.FindByID(ctx, p.CategoryID)
		if err != nil {
			s.logger.Warn("popular category missing", zap.String("category_id", p.CategoryID.String()), zap.Error(err))
			continue
		}
		rows = append(rows, PopularCategoryRow{
			ID:          p.ID,
			CategoryID:  p.CategoryID,
			Name:        category.Name,
			Slug:        category.Slug,
			SortOrder:   p.SortOrder,
			SearchCount: p.SearchCount,
		})
	}
	return rows, nil
}

// UpsertPopularSearch adds a curated search term
func (s *Service) UpsertPopularSearch(ctx context.Context, req UpsertPopularSearchRequest) error {
	term, err := search.NewPopularSearch(req.Term, req.SortOrder)
	if err != nil {
		return err
	}
	return s.searchRepo.SavePopularSearch(ctx, term)
}

// UpsertPopularCategory pins a category into the curated panel
func (s *Service) UpsertPopularCategory(ctx context.Context, req UpsertPopularCategoryRequest) error {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return err
	}
	return s.searchRepo.SavePopularCategory(ctx, search.NewPopularCategory(req.CategoryID, req.SortOrder))
}
