package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// Product is the catalog aggregate root. A product belongs to a vendor and
// is only visible to shoppers once published.
type Product struct {
	shared.BaseEntity
	VendorID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name             string          `gorm:"type:varchar(200);not null"`
	Slug             string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	ShortDescription string          `gorm:"type:varchar(500)"`
	Description      string          `gorm:"type:text"`
	Price            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Published        bool            `gorm:"not null;default:false;index"`
	ViewCount        int64           `gorm:"not null;default:0"`
	SearchHitCount   int64           `gorm:"not null;default:0"`
	Images           []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Specs            []ProductSpec   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Categories       []Category      `gorm:"many2many:product_categories"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductImage is an image attached to a product. SortOrder 0 is the
// primary image used in listings and suggestions.
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:varchar(500);not null"`
	AltText   string    `gorm:"type:varchar(200)"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// ProductSpec is a single name/value specification row for a product
type ProductSpec struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Value     string    `gorm:"type:varchar(500);not null"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductSpec) TableName() string {
	return "product_specs"
}

// NewProduct creates an unpublished product owned by a vendor
func NewProduct(vendorID uuid.UUID, name, slug string, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		VendorID:   vendorID,
		Name:       name,
		Slug:       strings.ToLower(slug),
		Price:      price,
	}, nil
}

// Update updates the product's editable fields
func (p *Product) Update(name, shortDescription, description string, price decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Name = name
	p.ShortDescription = shortDescription
	p.Description = description
	p.Price = price
	p.UpdatedAt = time.Now()
	return nil
}

// Publish makes the product visible in the storefront
func (p *Product) Publish() error {
	if p.Published {
		return shared.NewDomainError("ALREADY_PUBLISHED", "Product is already published")
	}
	if len(p.Images) == 0 {
		return shared.NewDomainError("NO_IMAGES", "Product needs at least one image before publishing")
	}
	p.Published = true
	p.UpdatedAt = time.Now()
	return nil
}

// Unpublish hides the product from the storefront
func (p *Product) Unpublish() error {
	if !p.Published {
		return shared.NewDomainError("NOT_PUBLISHED", "Product is not published")
	}
	p.Published = false
	p.UpdatedAt = time.Now()
	return nil
}

// ReplaceImages swaps the product's image set, preserving the given order
func (p *Product) ReplaceImages(urls []string, altTexts []string) {
	images := make([]ProductImage, 0, len(urls))
	for i, u := range urls {
		alt := ""
		if i < len(altTexts) {
			alt = altTexts[i]
		}
		images = append(images, ProductImage{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  p.ID,
			URL:        u,
			AltText:    alt,
			SortOrder:  i,
		})
	}
	p.Images = images
	p.UpdatedAt = time.Now()
}

// ReplaceSpecs swaps the product's specification rows
func (p *Product) ReplaceSpecs(specs map[string]string, order []string) {
	rows := make([]ProductSpec, 0, len(order))
	for i, name := range order {
		rows = append(rows, ProductSpec{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  p.ID,
			Name:       name,
			Value:      specs[name],
			SortOrder:  i,
		})
	}
	p.Specs = rows
	p.UpdatedAt = time.Now()
}

// PrimaryImageURL returns the URL of the lowest-sort-order image, or ""
func (p *Product) PrimaryImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	primary := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.SortOrder < primary.SortOrder {
			primary = img
		}
	}
	return primary.URL
}

// IsOwnedBy reports whether the product belongs to the given vendor
func (p *Product) IsOwnedBy(vendorID uuid.UUID) bool {
	return p.VendorID == vendorID
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// ValidateSlug validates a URL slug: lowercase alphanumerics and hyphens
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 200 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 200 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Slug can only contain letters, numbers, and hyphens")
		}
	}
	return nil
}
