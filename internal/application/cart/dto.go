package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds quantity to a product line in the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest overwrites a line's quantity; zero removes the line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// ItemResponse is one cart line in API responses
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSlug string          `json:"product_slug"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartResponse is the shopper's cart in API responses
type CartResponse struct {
	ID        uuid.UUID       `json:"id"`
	Items     []ItemResponse  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PreferencesResponse is the lightweight personalization payload
type PreferencesResponse struct {
	RecentCategories []string `json:"recent_categories"`
	ShowGreeting     bool     `json:"show_greeting"`
}
