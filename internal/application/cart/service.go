package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/domain/cart"
	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// Service handles cart business operations
type Service struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	prefs       cart.PreferenceStore
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewService creates a new cart Service
func NewService(
	cartRepo cart.Repository,
	productRepo catalog.ProductRepository,
	prefs cart.PreferenceStore,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		prefs:       prefs,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// GetOrCreate returns the user's open cart, creating an empty one if none
// exists yet.
func (s *Service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.openCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

// AddItem adds quantity to a product line. The increment is applied as a
// single upsert in the store, so two concurrent adds for the same product
// both land. The captured price is the catalog price at first add.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Published {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")
	}

	c, err := s.openCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.cartRepo.UpsertItem(ctx, c.ID, req.ProductID, req.Quantity, product.Price); err != nil {
		return nil, err
	}

	s.publishChanged(ctx, c.ID, userID)
	return s.reload(ctx, c.ID)
}

// UpdateItem overwrites a line's quantity; zero removes the line
func (s *Service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.openCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Quantity == 0 {
		err = s.cartRepo.RemoveItem(ctx, c.ID, productID)
	} else {
		err = s.cartRepo.SetItemQuantity(ctx, c.ID, productID, req.Quantity)
	}
	if err != nil {
		return nil, err
	}

	s.publishChanged(ctx, c.ID, userID)
	return s.reload(ctx, c.ID)
}

// RemoveItem deletes a product line from the cart
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.openCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(ctx, c.ID, productID); err != nil {
		return nil, err
	}

	s.publishChanged(ctx, c.ID, userID)
	return s.reload(ctx, c.ID)
}

// Clear removes every line from the cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.openCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.ClearItems(ctx, c.ID); err != nil {
		return nil, err
	}

	s.publishChanged(ctx, c.ID, userID)
	return s.reload(ctx, c.ID)
}

// Preferences returns the user's recent categories and whether the
// session greeting should be shown. The first call per session reports
// the greeting and marks it shown.
func (s *Service) Preferences(ctx context.Context, userID uuid.UUID) (*PreferencesResponse, error) {
	recents, err := s.prefs.RecentCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	greeted, err := s.prefs.WasGreeted(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !greeted {
		if err := s.prefs.MarkGreeted(ctx, userID); err != nil {
			s.logger.Warn("failed to mark greeting shown", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return &PreferencesResponse{
		RecentCategories: recents,
		ShowGreeting:     !greeted,
	}, nil
}

// TouchCategory records a category visit for the recency list. Failures
// are logged, never surfaced.
func (s *Service) TouchCategory(ctx context.Context, userID uuid.UUID, slug string) {
	if err := s.prefs.TouchCategory(ctx, userID, slug); err != nil {
		s.logger.Warn("failed to record category visit",
			zap.String("user_id", userID.String()),
			zap.String("slug", slug),
			zap.Error(err))
	}
}

func (s *Service) openCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c = cart.NewCart(userID)
	if err := s.cartRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) reload(ctx context.Context, cartID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

func (s *Service) publishChanged(ctx context.Context, cartID, userID uuid.UUID) {
	if err := s.eventBus.Publish(ctx, cart.NewChangedEvent(cartID, userID)); err != nil {
		s.logger.Warn("failed to publish cart change", zap.String("cart_id", cartID.String()), zap.Error(err))
	}
}

func (s *Service) toResponse(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	resp := &CartResponse{
		ID:        c.ID,
		Items:     make([]ItemResponse, 0, len(c.Items)),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
	}
	for _, item := range c.Items {
		line := ItemResponse{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			LineTotal:   item.PriceAtTime.Mul(decimalFromInt(item.Quantity)),
		}
		if product, err := s.productRepo.FindByID(ctx, item.ProductID); err == nil {
			line.ProductName = product.Name
			line.ProductSlug = product.Slug
			line.ImageURL = product.PrimaryImageURL()
		}
		resp.Items = append(resp.Items, line)
	}
	return resp, nil
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
