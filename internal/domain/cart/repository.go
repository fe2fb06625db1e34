package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the persistence operations for carts
type Repository interface {
	Create(ctx context.Context, cart *Cart) error
	Update(ctx context.Context, cart *Cart) error
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// UpsertItem adds delta to the line's quantity, inserting the line with
	// the captured price if it does not exist yet. The whole operation is a
	// single statement so concurrent adds never lose an increment. Returns
	// the quantity after the upsert.
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, delta int, price decimal.Decimal) (int, error)

	// SetItemQuantity overwrites a line's quantity; quantity 0 removes it
	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

// PreferenceStore keeps lightweight per-user shopping preferences out of
// the relational store.
type PreferenceStore interface {
	// RecentCategories returns the user's most recent category slugs, newest first
	RecentCategories(ctx context.Context, userID uuid.UUID) ([]string, error)
	// TouchCategory pushes a category slug onto the user's recency list
	TouchCategory(ctx context.Context, userID uuid.UUID, slug string) error
	// WasGreeted reports and sets whether the session greeting was shown
	WasGreeted(ctx context.Context, userID uuid.UUID) (bool, error)
	MarkGreeted(ctx context.Context, userID uuid.UUID) error
}
