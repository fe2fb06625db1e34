package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/domain/vendor"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	vendorRepo   vendor.Repository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	vendorRepo vendor.Repository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		vendorRepo:   vendorRepo,
	}
}

// Create creates a new unpublished product for an approved vendor
func (s *ProductService) Create(ctx context.Context, vendorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	v, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !v.IsApproved() {
		return nil, shared.NewDomainError("VENDOR_NOT_APPROVED", "Vendor is not approved to sell")
	}

	if _, err := s.productRepo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this slug already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(vendorID, req.Name, req.Slug, req.Price)
	if err != nil {
		return nil, err
	}
	product.ShortDescription = req.ShortDescription
	product.Description = req.Description
	if len(req.ImageURLs) > 0 {
		product.ReplaceImages(req.ImageURLs, req.ImageAltTexts)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	if len(req.CategoryIDs) > 0 {
		if err := s.productRepo.ReplaceCategories(ctx, product.ID, req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	return toProductResponse(product, true), nil
}

// Update updates a product owned by the given vendor
func (s *ProductService) Update(ctx context.Context, vendorID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.ownedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	short := product.ShortDescription
	if req.ShortDescription != nil {
		short = *req.ShortDescription
	}
	desc := product.Description
	if req.Description != nil {
		desc = *req.Description
	}
	price := product.Price
	if req.Price != nil {
		price = *req.Price
	}
	if err := product.Update(name, short, desc, price); err != nil {
		return nil, err
	}
	if req.ImageURLs != nil {
		product.ReplaceImages(req.ImageURLs, req.ImageAltTexts)
	}
	if req.Specs != nil {
		product.ReplaceSpecs(req.Specs, req.SpecOrder)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	if req.CategoryIDs != nil {
		if err := s.productRepo.ReplaceCategories(ctx, product.ID, req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	return toProductResponse(product, true), nil
}

// Publish makes a vendor's product visible in the storefront
func (s *ProductService) Publish(ctx context.Context, vendorID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.ownedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	if err := product.Publish(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, true), nil
}

// Unpublish hides a vendor's product
func (s *ProductService) Unpublish(ctx context.Context, vendorID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.ownedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	if err := product.Unpublish(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, true), nil
}

// Delete removes a vendor's product
func (s *ProductService) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	if _, err := s.ownedProduct(ctx, vendorID, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

// ForceUnpublish hides any product regardless of owner, for moderation
func (s *ProductService) ForceUnpublish(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.Unpublish(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, true), nil
}

// ForceDelete removes any product regardless of owner, for moderation
func (s *ProductService) ForceDelete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

// GetBySlug returns a published product by slug and counts the view.
// The view counter bumps in the database so concurrent reads never lose
// an increment; a counter failure does not fail the page.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !product.Published {
		return nil, shared.ErrNotFound
	}

	_ = s.productRepo.IncrementViewCount(ctx, product.ID)
	product.ViewCount++

	return toProductResponse(product, true), nil
}

// GetByID returns a product by ID without visibility filtering, for
// vendor and admin views.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, true), nil
}

// ListPublished returns the storefront product listing
func (s *ProductService) ListPublished(ctx context.Context, filter shared.Filter) (*ProductListResponse, error) {
	products, total, err := s.productRepo.FindPublished(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toListResponse(products, total, filter), nil
}

// ListByCategory returns published products in a category
func (s *ProductService) ListByCategory(ctx context.Context, categorySlug string, filter shared.Filter) (*ProductListResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	products, total, err := s.productRepo.FindByCategory(ctx, category.ID, filter)
	if err != nil {
		return nil, err
	}
	return toListResponse(products, total, filter), nil
}

// ListByVendor returns all of a vendor's products including unpublished ones
func (s *ProductService) ListByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (*ProductListResponse, error) {
	products, total, err := s.productRepo.FindByVendor(ctx, vendorID, filter)
	if err != nil {
		return nil, err
	}
	return toListResponse(products, total, filter), nil
}

func (s *ProductService) ownedProduct(ctx context.Context, vendorID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(vendorID) {
		return nil, shared.ErrForbidden
	}
	return product, nil
}

func toListResponse(products []*catalog.Product, total int64, filter shared.Filter) *ProductListResponse {
	resp := &ProductListResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for _, p := range products {
		resp.Products = append(resp.Products, *toProductResponse(p, false))
	}
	return resp
}
