package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// Cart is the shopper's open cart. Each user has at most one open cart;
// a closed cart is the one consumed by checkout.
type Cart struct {
	shared.BaseEntity
	UserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_carts_user_open"`
	Status Status     `gorm:"type:varchar(20);not null;default:'open';index:idx_carts_user_open"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// Status is the lifecycle state of a cart
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one product line in a cart. PriceAtTime is captured when the
// line is first created and does not follow later catalog price changes.
type CartItem struct {
	shared.BaseEntity
	CartID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity    int             `gorm:"not null"`
	PriceAtTime decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCart creates an open cart for a user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Status:     StatusOpen,
	}
}

// NewCartItem creates a cart line with the price captured now
func NewCartItem(cartID, productID uuid.UUID, quantity int, price decimal.Decimal) (*CartItem, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return &CartItem{
		BaseEntity:  shared.NewBaseEntity(),
		CartID:      cartID,
		ProductID:   productID,
		Quantity:    quantity,
		PriceAtTime: price,
	}, nil
}

// IsOpen reports whether the cart can still be modified
func (c *Cart) IsOpen() bool {
	return c.Status == StatusOpen
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Close marks the cart as consumed by checkout
func (c *Cart) Close() error {
	if c.Status != StatusOpen {
		return shared.ErrInvalidState
	}
	c.Status = StatusClosed
	c.UpdatedAt = time.Now()
	return nil
}

// Subtotal sums quantity times captured price across all lines
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount sums the quantities across all lines
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// ChangedEvent is published whenever a cart's contents change, so that
// open streams for the same user can resync.
type ChangedEvent struct {
	shared.BaseEvent
	CartID uuid.UUID
	UserID uuid.UUID
}

// EventTypeChanged is the bus type string for ChangedEvent
const EventTypeChanged = "cart.changed"

// NewChangedEvent creates a cart changed event
func NewChangedEvent(cartID, userID uuid.UUID) *ChangedEvent {
	return &ChangedEvent{
		BaseEvent: shared.NewBaseEvent(EventTypeChanged),
		CartID:    cartID,
		UserID:    userID,
	}
}
