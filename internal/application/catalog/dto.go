package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxemart/storefront/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name             string          `json:"name" binding:"required,min=1,max=200"`
	Slug             string          `json:"slug" binding:"required,slug,max=200"`
	ShortDescription string          `json:"short_description" binding:"max=500"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price" binding:"required"`
	CategoryIDs      []uuid.UUID     `json:"category_ids"`
	ImageURLs        []string        `json:"image_urls"`
	ImageAltTexts    []string        `json:"image_alt_texts"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name             *string           `json:"name" binding:"omitempty,min=1,max=200"`
	ShortDescription *string           `json:"short_description" binding:"omitempty,max=500"`
	Description      *string           `json:"description"`
	Price            *decimal.Decimal  `json:"price"`
	CategoryIDs      []uuid.UUID       `json:"category_ids"`
	ImageURLs        []string          `json:"image_urls"`
	ImageAltTexts    []string          `json:"image_alt_texts"`
	Specs            map[string]string `json:"specs"`
	SpecOrder        []string          `json:"spec_order"`
}

// ProductImageResponse represents a product image in API responses
type ProductImageResponse struct {
	URL       string `json:"url"`
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
}

// ProductSpecResponse represents a specification row in API responses
type ProductSpecResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID              `json:"id"`
	VendorID         uuid.UUID              `json:"vendor_id"`
	Name             string                 `json:"name"`
	Slug             string                 `json:"slug"`
	ShortDescription string                 `json:"short_description"`
	Description      string                 `json:"description"`
	Price            decimal.Decimal        `json:"price"`
	Published        bool                   `json:"published"`
	ViewCount        int64                  `json:"view_count"`
	ImageURL         string                 `json:"image_url"`
	Images           []ProductImageResponse `json:"images,omitempty"`
	Specs            []ProductSpecResponse  `json:"specs,omitempty"`
	Categories       []CategoryResponse     `json:"categories,omitempty"`
}

// ProductListResponse represents a paginated product list
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Slug        string     `json:"slug" binding:"required,slug,max=100"`
	Description string     `json:"description" binding:"max=500"`
	ImageURL    string     `json:"image_url" binding:"max=500"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order"`
}

func toProductResponse(p *catalog.Product, full bool) *ProductResponse {
	resp := &ProductResponse{
		ID:               p.ID,
		VendorID:         p.VendorID,
		Name:             p.Name,
		Slug:             p.Slug,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Price:            p.Price,
		Published:        p.Published,
		ViewCount:        p.ViewCount,
		ImageURL:         p.PrimaryImageURL(),
	}
	if !full {
		return resp
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, ProductImageResponse{URL: img.URL, AltText: img.AltText, SortOrder: img.SortOrder})
	}
	for _, spec := range p.Specs {
		resp.Specs = append(resp.Specs, ProductSpecResponse{Name: spec.Name, Value: spec.Value})
	}
	for i := range p.Categories {
		resp.Categories = append(resp.Categories, *toCategoryResponse(&p.Categories[i]))
	}
	return resp
}

func toCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		ParentID:    c.ParentID,
		SortOrder:   c.SortOrder,
	}
}
