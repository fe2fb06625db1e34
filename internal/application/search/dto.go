package search

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSuggestion is a product row in the suggestion panel
type ProductSuggestion struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

// CategorySuggestion is a category row in the suggestion panel
type CategorySuggestion struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// SuggestionsResponse is the full suggestion panel for one query.
// For an empty query the curated popular lists are filled instead of
// the match lists.
type SuggestionsResponse struct {
	Query             string               `json:"query"`
	Products          []ProductSuggestion  `json:"products"`
	Categories        []CategorySuggestion `json:"categories"`
	PopularSearches   []string             `json:"popular_searches,omitempty"`
	PopularCategories []CategorySuggestion `json:"popular_categories,omitempty"`
}

// PopularSearchRow is one term in the analytics view
type PopularSearchRow struct {
	ID          uuid.UUID `json:"id"`
	Term        string    `json:"term"`
	SortOrder   int       `json:"sort_order"`
	SearchCount int       `json:"search_count"`
}

// PopularCategoryRow is one category in the analytics view
type PopularCategoryRow struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	SortOrder   int       `json:"sort_order"`
	SearchCount int       `json:"search_count"`
}

// UpsertPopularSearchRequest adds or reorders a curated search term
type UpsertPopularSearchRequest struct {
	Term      string `json:"term" binding:"required,min=1,max=100"`
	SortOrder int    `json:"sort_order"`
}

// UpsertPopularCategoryRequest pins a category into the curated panel
type UpsertPopularCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	SortOrder  int       `json:"sort_order"`
}
