package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luxemart/storefront/internal/domain/cart"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Create persists a new cart
func (r *GormCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update saves the cart header, not its items
func (r *GormCartRepository) Update(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Omit("Items").Save(c).Error
}

// FindByID finds a cart with its items
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).Preload("Items").First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindOpenByUser finds the user's open cart with its items
func (r *GormCartRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ? AND status = ?", userID, cart.StatusOpen).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// UpsertItem adds delta to the line's quantity in a single statement so
// concurrent adds never lose an increment. The captured price only
// applies when the insert wins; an existing line keeps its price.
func (r *GormCartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, delta int, price decimal.Decimal) (int, error) {
	item, err := cart.NewCartItem(cartID, productID, delta, price)
	if err != nil {
		return 0, err
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error; err != nil {
		return 0, err
	}

	var quantity int
	if err := r.db.WithContext(ctx).Model(&cart.CartItem{}).
		Select("quantity").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Scan(&quantity).Error; err != nil {
		return 0, err
	}
	return quantity, nil
}

// SetItemQuantity overwrites a line's quantity; quantity 0 removes it
func (r *GormCartRepository) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, cartID, productID)
	}
	result := r.db.WithContext(ctx).Model(&cart.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RemoveItem removes a line from the cart
func (r *GormCartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&cart.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearItems removes every line from the cart
func (r *GormCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&cart.CartItem{}).Error
}

// Ensure GormCartRepository implements Repository
var _ cart.Repository = (*GormCartRepository)(nil)
