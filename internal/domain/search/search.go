package search

import (
	"strings"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// PopularSearch is a search term shown when the query box is empty.
// Rows appear either through admin curation or organically, with
// SearchCount climbing as shoppers repeat the term.
type PopularSearch struct {
	shared.BaseEntity
	Term        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	SortOrder   int    `gorm:"not null;default:0"`
	SearchCount int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PopularSearch) TableName() string {
	return "popular_searches"
}

// NewPopularSearch creates a curated search term
func NewPopularSearch(term string, sortOrder int) (*PopularSearch, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, shared.NewDomainError("INVALID_TERM", "Search term cannot be empty")
	}
	return &PopularSearch{
		BaseEntity: shared.NewBaseEntity(),
		Term:       term,
		SortOrder:  sortOrder,
	}, nil
}

// PopularCategory surfaces a category in the empty-query suggestion
// panel, pinned by an admin or promoted by search traffic
type PopularCategory struct {
	shared.BaseEntity
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SortOrder   int       `gorm:"not null;default:0"`
	SearchCount int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PopularCategory) TableName() string {
	return "popular_categories"
}

// NewPopularCategory pins a category
func NewPopularCategory(categoryID uuid.UUID, sortOrder int) *PopularCategory {
	return &PopularCategory{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		SortOrder:  sortOrder,
	}
}
