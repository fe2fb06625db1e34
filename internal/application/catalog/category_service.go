package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if _, err := s.categoryRepo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if req.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}
	}

	category, err := catalog.NewCategory(req.Name, req.Slug, req.ParentID)
	if err != nil {
		return nil, err
	}
	category.Description = req.Description
	category.ImageURL = req.ImageURL
	category.SortOrder = req.SortOrder

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := category.Name
	if req.Name != nil {
		name = *req.Name
	}
	desc := category.Description
	if req.Description != nil {
		desc = *req.Description
	}
	imageURL := category.ImageURL
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	sortOrder := category.SortOrder
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := category.Update(name, desc, imageURL, sortOrder); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// GetBySlug returns a category by slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// List returns all categories ordered for display
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, *toCategoryResponse(c))
	}
	return resp, nil
}

// ListTopLevel returns only top-level categories
func (s *CategoryService) ListTopLevel(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindTopLevel(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, *toCategoryResponse(c))
	}
	return resp, nil
}
