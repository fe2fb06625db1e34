package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// Category groups products for browsing. Categories form a single-level
// tree through ParentID; nil ParentID marks a top-level category.
type Category struct {
	shared.BaseEntity
	Name        string     `gorm:"type:varchar(100);not null"`
	Slug        string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string     `gorm:"type:varchar(500)"`
	ImageURL    string     `gorm:"type:varchar(500)"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	SortOrder   int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, slug string, parentID *uuid.UUID) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       strings.ToLower(slug),
		ParentID:   parentID,
	}, nil
}

// Update updates the category's editable fields
func (c *Category) Update(name, description, imageURL string, sortOrder int) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	c.Name = name
	c.Description = description
	c.ImageURL = imageURL
	c.SortOrder = sortOrder
	c.UpdatedAt = time.Now()
	return nil
}

// IsTopLevel reports whether the category has no parent
func (c *Category) IsTopLevel() bool {
	return c.ParentID == nil
}
